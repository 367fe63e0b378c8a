package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// DriverController serves the public driver registration and the admin-side
// driver removal.
type DriverController struct {
	coord *services.Coordinator
}

func NewDriverController(coord *services.Coordinator) *DriverController {
	return &DriverController{coord: coord}
}

// CreateDriver handles the public driver sign-up form.
func (dc *DriverController) CreateDriver(c *gin.Context) {
	var input services.DriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body format: " + err.Error()})
		return
	}

	driver, err := dc.coord.CreateDriver(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

// DeleteDriver removes a driver; assigned riders are released first.
func (dc *DriverController) DeleteDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := dc.coord.DeleteDriver(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted and riders unassigned."})
}
