package main

import (
	"log"
	"net/http"

	"github.com/AhmadWajid/kfmruns/internal/config"
	"github.com/AhmadWajid/kfmruns/internal/controllers"
	"github.com/AhmadWajid/kfmruns/internal/logger"
	"github.com/AhmadWajid/kfmruns/internal/matching"
	"github.com/AhmadWajid/kfmruns/internal/middleware"
	"github.com/AhmadWajid/kfmruns/internal/routes"
	"github.com/AhmadWajid/kfmruns/internal/services"
	"github.com/AhmadWajid/kfmruns/internal/store"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()

	// Connect to the database and migrate the schema
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	// Wire the store, the coordinator and the controllers
	st := store.NewGormStore(db)
	coord := services.NewCoordinator(st, matching.Policy{
		AutoFillSameArea:   cfg.AutoFillSameArea,
		ScanPastNonFitting: cfg.ScanPastNonFitting,
	})

	secret := []byte(cfg.JWTSecret)
	r := routes.SetupRouter(routes.Deps{
		Auth:      controllers.NewAuthController(secret, cfg.AdminPasswordHash),
		Driver:    controllers.NewDriverController(coord),
		Rider:     controllers.NewRiderController(coord),
		Dashboard: controllers.NewDashboardController(coord),
		Admin:     controllers.NewAdminController(coord),
		Area:      controllers.NewAreaController(coord),
		JWTSecret: secret,
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, handler))
}
