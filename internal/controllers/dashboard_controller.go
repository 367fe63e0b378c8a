package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// DashboardController serves the resolved assignment snapshot. The public
// route is gated on the finalized flag; the admin route always serves.
type DashboardController struct {
	coord *services.Coordinator
}

func NewDashboardController(coord *services.Coordinator) *DashboardController {
	return &DashboardController{coord: coord}
}

// GetAppState exposes the finalized flag so the public page knows whether to
// render results or the waiting screen.
func (dc *DashboardController) GetAppState(c *gin.Context) {
	state, err := dc.coord.AppState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_finalized": state.IsFinalized})
}

// GetDashboard is the public dashboard; it refuses to serve until the admin
// finalizes the assignments.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	state, err := dc.coord.AppState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if !state.IsFinalized {
		c.JSON(http.StatusForbidden, gin.H{"error": "Assignments are not finalized yet."})
		return
	}
	dc.serve(c)
}

// GetAdminDashboard serves the snapshot regardless of the finalized flag.
func (dc *DashboardController) GetAdminDashboard(c *gin.Context) {
	dc.serve(c)
}

func (dc *DashboardController) serve(c *gin.Context) {
	data, err := dc.coord.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
