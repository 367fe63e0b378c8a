package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"github.com/AhmadWajid/kfmruns/internal/controllers"
)

// Deps are the wired controllers plus the secret the admin gate verifies
// tokens with.
type Deps struct {
	Auth      *controllers.AuthController
	Driver    *controllers.DriverController
	Rider     *controllers.RiderController
	Dashboard *controllers.DashboardController
	Admin     *controllers.AdminController
	Area      *controllers.AreaController
	JWTSecret []byte
}

// SetupRouter registers every route group on a fresh engine behind recovery
// and request-logging middleware. CORS is layered on by the caller.
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()

	// Recovery and request logging must precede route registration.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r, deps)
	PublicRoutes(r, deps)
	AdminRoutes(r, deps)

	return r
}
