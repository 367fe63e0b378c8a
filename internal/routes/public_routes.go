package routes

import (
	"github.com/gin-gonic/gin"
)

// PublicRoutes are the unauthenticated endpoints: the two registration
// forms, the pickup-area list, and the finalize-gated dashboard.
func PublicRoutes(r *gin.Engine, deps Deps) {
	r.POST("/drivers", deps.Driver.CreateDriver)
	r.POST("/riders", deps.Rider.CreateRider)
	r.GET("/areas", deps.Area.ListAreas)
	r.GET("/state", deps.Dashboard.GetAppState)
	r.GET("/dashboard", deps.Dashboard.GetDashboard)
}
