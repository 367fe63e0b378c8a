package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// AdminController holds the destructive oversight actions: the capacity
// audit, the full wipe, and the finalize toggle.
type AdminController struct {
	coord *services.Coordinator
}

func NewAdminController(coord *services.Coordinator) *AdminController {
	return &AdminController{coord: coord}
}

// FixOverAssignments runs the capacity audit and unassigns excess riders.
// The caller should refetch the dashboard afterwards.
func (ac *AdminController) FixOverAssignments(c *gin.Context) {
	if err := ac.coord.FixOverAssignments(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Over-assignment check completed."})
}

// ClearAll wipes every driver and rider record.
func (ac *AdminController) ClearAll(c *gin.Context) {
	if err := ac.coord.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All data cleared."})
}

type finalizeInput struct {
	IsFinalized *bool `json:"is_finalized" binding:"required"`
}

// Finalize toggles public visibility of the dashboard.
func (ac *AdminController) Finalize(c *gin.Context) {
	var input finalizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_finalized is required"})
		return
	}
	if err := ac.coord.Finalize(c.Request.Context(), *input.IsFinalized); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_finalized": *input.IsFinalized})
}
