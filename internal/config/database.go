package config

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AhmadWajid/kfmruns/internal/models"
)

// InitDB opens the Postgres connection, migrates the schema and seeds the
// singleton app_state row plus the default pickup areas.
func InitDB(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, cfg.DBTimezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(&models.Driver{}, &models.Rider{}, &models.AppState{}, &models.PickupArea{})
	if err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}

	if err := seedAppState(db); err != nil {
		return nil, err
	}
	if err := seedPickupAreas(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedAppState inserts the id=1 row once; existing state is never overwritten.
func seedAppState(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AppState{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.AppState{ID: 1, IsFinalized: false}).Error
}

// defaultPickupAreas are the campus spots the public forms offer, with
// approximate map coordinates (lng, lat).
var defaultPickupAreas = []struct {
	name    string
	address string
	lng     float64
	lat     float64
}{
	{"Ackerman Turnaround", "Ackerman Union, Los Angeles, CA", -118.4441, 34.0706},
	{"De Neve & Gayley Intersection", "De Neve Dr & Gayley Ave, Los Angeles, CA", -118.4501, 34.0713},
	{"Gayley Heights", "Gayley Ave, Los Angeles, CA", -118.4479, 34.0668},
}

func seedPickupAreas(db *gorm.DB) error {
	for _, a := range defaultPickupAreas {
		var count int64
		if err := db.Model(&models.PickupArea{}).Where("name = ?", a.name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		point := geom.NewPointFlat(geom.XY, []float64{a.lng, a.lat})
		loc, err := wkb.Marshal(point, binary.LittleEndian)
		if err != nil {
			return err
		}
		area := models.PickupArea{Name: a.name, Address: a.address, Location: loc}
		if err := db.Create(&area).Error; err != nil {
			return err
		}
	}
	return nil
}
