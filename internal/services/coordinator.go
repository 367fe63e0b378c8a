// Package services holds the coordinator: the single entry point the HTTP
// layer uses for assignment reads and writes. Writing driver_id is the only
// assignment mechanism, and every mutation is a capacity-checked
// read-then-write against the injected store.
package services

import (
	"context"
	"errors"
	"strings"

	logrus "github.com/sirupsen/logrus"

	"github.com/AhmadWajid/kfmruns/internal/matching"
	"github.com/AhmadWajid/kfmruns/internal/models"
	"github.com/AhmadWajid/kfmruns/internal/store"
)

const (
	minSeats = 1
	maxSeats = 8
)

// Coordinator runs the assignment engine against an injected data store.
type Coordinator struct {
	store  store.Store
	policy matching.Policy
}

func NewCoordinator(st store.Store, policy matching.Policy) *Coordinator {
	return &Coordinator{store: st, policy: policy}
}

// DriverInput is the public driver registration form payload.
type DriverInput struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phone_number"`
	SeatsAvailable int    `json:"seats_available"`
	PickupArea     string `json:"pickup_area"`
	LeaveKfmTime   string `json:"leave_kfm_time"`
	LeaveUclaTime  string `json:"leave_ucla_time"`
	Notes          string `json:"notes"`
}

// RiderInput is the public rider registration form payload.
type RiderInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	SeatsNeeded int    `json:"seats_needed"`
	PickupArea  string `json:"pickup_area"`
	Notes       string `json:"notes"`
}

// DashboardData is the read-only snapshot the presentation layer renders.
// The embedded Stats flatten into the JSON body next to the lists.
type DashboardData struct {
	Drivers         []models.Driver           `json:"drivers"`
	Riders          []models.Rider            `json:"riders"`
	Matches         []matching.Match          `json:"matches"`
	UnmatchedRiders []matching.UnmatchedRider `json:"unmatched_riders"`
	matching.Stats
}

// Dashboard fetches the raw records, resolves assignments and aggregates the
// stats into one consistent snapshot.
func (c *Coordinator) Dashboard(ctx context.Context) (DashboardData, error) {
	drivers, err := c.store.ListDrivers(ctx)
	if err != nil {
		return DashboardData{}, &PersistenceError{Op: "fetch drivers", Err: err}
	}
	riders, err := c.store.ListRiders(ctx)
	if err != nil {
		return DashboardData{}, &PersistenceError{Op: "fetch riders", Err: err}
	}

	matches, unmatched := matching.Resolve(drivers, riders, c.policy)
	stats := matching.AggregateStats(drivers, riders, matches, unmatched)

	return DashboardData{
		Drivers:         drivers,
		Riders:          riders,
		Matches:         matches,
		UnmatchedRiders: unmatched,
		Stats:           stats,
	}, nil
}

// CreateDriver validates and stores a new driver registration.
func (c *Coordinator) CreateDriver(ctx context.Context, input DriverInput) (models.Driver, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		missing = append(missing, "phone number")
	}
	if input.SeatsAvailable == 0 {
		missing = append(missing, "seats available")
	}
	if strings.TrimSpace(input.PickupArea) == "" {
		missing = append(missing, "pickup area")
	}
	if strings.TrimSpace(input.LeaveKfmTime) == "" {
		missing = append(missing, "time leaving KFM")
	}
	if strings.TrimSpace(input.LeaveUclaTime) == "" {
		missing = append(missing, "time leaving UCLA")
	}
	if len(missing) > 0 {
		return models.Driver{}, validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if input.SeatsAvailable < minSeats || input.SeatsAvailable > maxSeats {
		return models.Driver{}, validationf("seats available must be between %d and %d", minSeats, maxSeats)
	}

	driver := models.Driver{
		Name:           input.Name,
		PhoneNumber:    input.PhoneNumber,
		SeatsAvailable: input.SeatsAvailable,
		PickupArea:     input.PickupArea,
		LeaveKfmTime:   input.LeaveKfmTime,
		LeaveUclaTime:  input.LeaveUclaTime,
		Notes:          input.Notes,
	}
	if err := c.store.CreateDriver(ctx, &driver); err != nil {
		if errors.Is(err, store.ErrInvalidData) {
			return models.Driver{}, validationf("driver data rejected by the database")
		}
		return models.Driver{}, &PersistenceError{Op: "create driver", Err: err}
	}
	return driver, nil
}

// CreateRider validates and stores a new rider registration. SeatsNeeded
// defaults to 1 when the form omits it.
func (c *Coordinator) CreateRider(ctx context.Context, input RiderInput) (models.Rider, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.PhoneNumber) == "" ||
		strings.TrimSpace(input.PickupArea) == "" {
		return models.Rider{}, validationf("missing required fields")
	}
	seats := input.SeatsNeeded
	if seats == 0 {
		seats = 1
	}
	if seats < minSeats || seats > maxSeats {
		return models.Rider{}, validationf("seats needed must be between %d and %d", minSeats, maxSeats)
	}

	rider := models.Rider{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		SeatsNeeded: seats,
		PickupArea:  input.PickupArea,
		Notes:       input.Notes,
	}
	if err := c.store.CreateRider(ctx, &rider); err != nil {
		if errors.Is(err, store.ErrInvalidData) {
			return models.Rider{}, validationf("rider data rejected by the database")
		}
		return models.Rider{}, &PersistenceError{Op: "create rider", Err: err}
	}
	return rider, nil
}

// AssignRider confirms a rider onto a driver after a capacity check against
// the driver's currently assigned riders. The check and the write are two
// round-trips with no transaction; concurrent admins can race past it, which
// FixOverAssignments corrects on the next dashboard load.
func (c *Coordinator) AssignRider(ctx context.Context, riderID, driverID uint) error {
	rider, err := c.store.GetRider(ctx, riderID)
	if err != nil {
		return riderLookupError("fetch rider", riderID, err)
	}
	driver, err := c.store.GetDriver(ctx, driverID)
	if err != nil {
		return driverLookupError("fetch driver", driverID, err)
	}

	assigned, err := c.store.RidersByDriver(ctx, driver.ID)
	if err != nil {
		return &PersistenceError{Op: "fetch assigned riders", Err: err}
	}
	used := 0
	for _, r := range assigned {
		if r.ID == rider.ID {
			continue // re-assigning to the same driver frees its own seats
		}
		used += r.SeatsNeeded
	}
	if used+rider.SeatsNeeded > driver.SeatsAvailable {
		return &CapacityError{
			DriverID:   driver.ID,
			SeatsAsked: used + rider.SeatsNeeded,
			SeatsFree:  driver.SeatsAvailable,
		}
	}

	if err := c.store.SetRiderDriver(ctx, rider.ID, &driver.ID); err != nil {
		return &PersistenceError{Op: "assign rider", Err: err}
	}
	return nil
}

// UnassignRider clears the rider's driver reference.
func (c *Coordinator) UnassignRider(ctx context.Context, riderID uint) error {
	if err := c.store.SetRiderDriver(ctx, riderID, nil); err != nil {
		return riderLookupError("unassign rider", riderID, err)
	}
	return nil
}

// MoveRider reassigns a rider to a new driver: semantically unassign plus
// assign, with the same capacity precondition as AssignRider. The single
// driver_id write performs both steps.
func (c *Coordinator) MoveRider(ctx context.Context, riderID, newDriverID uint) error {
	return c.AssignRider(ctx, riderID, newDriverID)
}

// DeleteDriver removes a driver, first releasing every rider assigned to it.
func (c *Coordinator) DeleteDriver(ctx context.Context, driverID uint) error {
	if _, err := c.store.GetDriver(ctx, driverID); err != nil {
		return driverLookupError("fetch driver", driverID, err)
	}
	if err := c.store.UnassignRidersOfDriver(ctx, driverID); err != nil {
		return &PersistenceError{Op: "unassign riders of driver", Err: err}
	}
	if err := c.store.DeleteDriver(ctx, driverID); err != nil {
		return &PersistenceError{Op: "delete driver", Err: err}
	}
	return nil
}

// DeleteRider removes a rider unconditionally.
func (c *Coordinator) DeleteRider(ctx context.Context, riderID uint) error {
	if err := c.store.DeleteRider(ctx, riderID); err != nil {
		return riderLookupError("delete rider", riderID, err)
	}
	return nil
}

// ClearAll wipes every record: unassign all riders, delete all riders, then
// delete all drivers, so referential integrity holds at each step. The first
// failure aborts the remaining steps.
func (c *Coordinator) ClearAll(ctx context.Context) error {
	if err := c.store.UnassignAllRiders(ctx); err != nil {
		return &PersistenceError{Op: "unassign all riders", Err: err}
	}
	if err := c.store.DeleteAllRiders(ctx); err != nil {
		return &PersistenceError{Op: "delete all riders", Err: err}
	}
	if err := c.store.DeleteAllDrivers(ctx); err != nil {
		return &PersistenceError{Op: "delete all drivers", Err: err}
	}
	return nil
}

// FixOverAssignments scans every driver for capacity violations caused by
// racing admin edits and unassigns the excess riders. Riders are ranked by
// ascending ID (first come is protected); once one does not fit, it and all
// later-ranked riders are released. Best effort per driver: a failure on one
// driver is logged and the scan moves on.
func (c *Coordinator) FixOverAssignments(ctx context.Context) error {
	drivers, err := c.store.ListDrivers(ctx)
	if err != nil {
		return &PersistenceError{Op: "fetch drivers", Err: err}
	}

	for _, driver := range drivers {
		assigned, err := c.store.RidersByDriver(ctx, driver.ID)
		if err != nil {
			logrus.WithError(err).WithField("driver_id", driver.ID).
				Warn("FixOverAssignments: could not fetch assigned riders, skipping driver")
			continue
		}

		used := 0
		for _, r := range assigned {
			used += r.SeatsNeeded
		}
		if used <= driver.SeatsAvailable {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"driver_id":       driver.ID,
			"seats_used":      used,
			"seats_available": driver.SeatsAvailable,
		}).Info("FixOverAssignments: driver is over-assigned")

		remaining := driver.SeatsAvailable
		overflow := false
		for _, rider := range assigned {
			if !overflow && rider.SeatsNeeded <= remaining {
				remaining -= rider.SeatsNeeded
				continue
			}
			// Cut off the tail: this rider and everyone ranked after it.
			overflow = true
			if err := c.store.SetRiderDriver(ctx, rider.ID, nil); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"driver_id": driver.ID,
					"rider_id":  rider.ID,
				}).Warn("FixOverAssignments: could not unassign rider")
			}
		}
	}
	return nil
}

// AppState reads the singleton finalized flag.
func (c *Coordinator) AppState(ctx context.Context) (models.AppState, error) {
	state, err := c.store.AppState(ctx)
	if err != nil {
		return models.AppState{}, &PersistenceError{Op: "fetch app state", Err: err}
	}
	return state, nil
}

// Finalize toggles public visibility of the dashboard.
func (c *Coordinator) Finalize(ctx context.Context, finalized bool) error {
	if err := c.store.SetFinalized(ctx, finalized); err != nil {
		return &PersistenceError{Op: "update app state", Err: err}
	}
	return nil
}

// PickupAreas lists the named pickup spots for the public forms.
func (c *Coordinator) PickupAreas(ctx context.Context) ([]models.PickupArea, error) {
	areas, err := c.store.ListPickupAreas(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "fetch pickup areas", Err: err}
	}
	return areas, nil
}

func riderLookupError(op string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: "rider", ID: id}
	}
	return &PersistenceError{Op: op, Err: err}
}

func driverLookupError(op string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: "driver", ID: id}
	}
	return &PersistenceError{Op: op, Err: err}
}
