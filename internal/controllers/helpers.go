package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// respondError maps service error kinds onto HTTP statuses. Validation and
// not-found messages are human-readable and pass through; store failures are
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var capErr *services.CapacityError
	if errors.As(err, &capErr) {
		c.JSON(http.StatusConflict, gin.H{"error": capErr.Error()})
		return
	}
	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
		return
	}
	var nfErr *services.NotFoundError
	if errors.As(err, &nfErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
		return
	}
	logrus.WithError(err).Error("request failed on a store operation")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// parseID reads a uint path parameter; a second return of false means the
// 400 response was already written.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format."})
		return 0, false
	}
	return uint(id), true
}
