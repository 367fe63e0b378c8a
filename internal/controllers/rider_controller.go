package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// RiderController serves the public rider registration and the admin
// assignment actions (assign / unassign / move / delete).
type RiderController struct {
	coord *services.Coordinator
}

func NewRiderController(coord *services.Coordinator) *RiderController {
	return &RiderController{coord: coord}
}

// assignmentInput names the rider and driver involved in an admin action.
type assignmentInput struct {
	RiderID  uint `json:"rider_id" binding:"required"`
	DriverID uint `json:"driver_id" binding:"required"`
}

type riderOnlyInput struct {
	RiderID uint `json:"rider_id" binding:"required"`
}

// CreateRider handles the public rider sign-up form.
func (rc *RiderController) CreateRider(c *gin.Context) {
	var input services.RiderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body format: " + err.Error()})
		return
	}

	rider, err := rc.coord.CreateRider(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rider": rider})
}

// AssignRider confirms a rider onto a driver, capacity permitting.
func (rc *RiderController) AssignRider(c *gin.Context) {
	var input assignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rider_id and driver_id are required"})
		return
	}
	if err := rc.coord.AssignRider(c.Request.Context(), input.RiderID, input.DriverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rider assigned."})
}

// UnassignRider returns a rider to the unmatched pool.
func (rc *RiderController) UnassignRider(c *gin.Context) {
	var input riderOnlyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rider_id is required"})
		return
	}
	if err := rc.coord.UnassignRider(c.Request.Context(), input.RiderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rider unassigned."})
}

// MoveRider reassigns a rider to a different driver.
func (rc *RiderController) MoveRider(c *gin.Context) {
	var input assignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rider_id and driver_id are required"})
		return
	}
	if err := rc.coord.MoveRider(c.Request.Context(), input.RiderID, input.DriverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rider moved."})
}

// DeleteRider removes a rider unconditionally.
func (rc *RiderController) DeleteRider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.coord.DeleteRider(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rider deleted."})
}
