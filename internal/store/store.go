// Package store is the persistence capability the coordinator operates
// through. The canonical driver/rider records live in Postgres; this package
// owns all reads and writes so the core never touches a database handle.
package store

import (
	"context"
	"errors"

	"github.com/AhmadWajid/kfmruns/internal/models"
)

var (
	// ErrNotFound is returned when a referenced driver or rider row is absent.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidData is returned when the database rejects a write on a
	// constraint (seat-count checks, driver foreign key).
	ErrInvalidData = errors.New("record violates a database constraint")
)

// Store is the data-store capability injected into the coordinator.
type Store interface {
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListRiders(ctx context.Context) ([]models.Rider, error)
	GetDriver(ctx context.Context, id uint) (models.Driver, error)
	GetRider(ctx context.Context, id uint) (models.Rider, error)
	// RidersByDriver returns the riders assigned to a driver in ascending
	// ID order, the rank the capacity audit protects.
	RidersByDriver(ctx context.Context, driverID uint) ([]models.Rider, error)

	CreateDriver(ctx context.Context, driver *models.Driver) error
	CreateRider(ctx context.Context, rider *models.Rider) error
	// SetRiderDriver writes the rider's driver_id; nil unassigns.
	SetRiderDriver(ctx context.Context, riderID uint, driverID *uint) error
	UnassignRidersOfDriver(ctx context.Context, driverID uint) error
	DeleteDriver(ctx context.Context, id uint) error
	DeleteRider(ctx context.Context, id uint) error

	UnassignAllRiders(ctx context.Context) error
	DeleteAllRiders(ctx context.Context) error
	DeleteAllDrivers(ctx context.Context) error

	AppState(ctx context.Context) (models.AppState, error)
	SetFinalized(ctx context.Context, finalized bool) error

	ListPickupAreas(ctx context.Context) ([]models.PickupArea, error)
}
