package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/middleware"
)

// AdminRoutes are the oversight endpoints behind the admin token gate.
func AdminRoutes(r *gin.Engine, deps Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(deps.JWTSecret))
	{
		admin.GET("/dashboard", deps.Dashboard.GetAdminDashboard)

		admin.POST("/assign", deps.Rider.AssignRider)
		admin.POST("/unassign", deps.Rider.UnassignRider)
		admin.POST("/move", deps.Rider.MoveRider)
		admin.DELETE("/drivers/:id", deps.Driver.DeleteDriver)
		admin.DELETE("/riders/:id", deps.Rider.DeleteRider)

		admin.POST("/fix-overassignments", deps.Admin.FixOverAssignments)
		admin.POST("/clear", deps.Admin.ClearAll)
		admin.POST("/finalize", deps.Admin.Finalize)
	}
}
