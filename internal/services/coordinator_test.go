package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"gorm.io/gorm"

	"github.com/AhmadWajid/kfmruns/internal/matching"
	"github.com/AhmadWajid/kfmruns/internal/models"
	"github.com/AhmadWajid/kfmruns/internal/store"
)

// fakeStore is an in-memory Store for exercising the coordinator without a
// database. Failure injection mimics partial store outages.
type fakeStore struct {
	drivers map[uint]*models.Driver
	riders  map[uint]*models.Rider
	state   models.AppState

	failRidersFor       map[uint]error
	failDeleteAllRiders error

	driverWrites int // SetRiderDriver calls, for idempotence checks
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drivers:       map[uint]*models.Driver{},
		riders:        map[uint]*models.Rider{},
		state:         models.AppState{ID: 1},
		failRidersFor: map[uint]error{},
	}
}

func (f *fakeStore) addDriver(id uint, seats int) {
	f.drivers[id] = &models.Driver{
		Model:          gorm.Model{ID: id},
		Name:           "driver",
		PhoneNumber:    "555-0100",
		SeatsAvailable: seats,
		PickupArea:     "Gayley Heights",
		LeaveKfmTime:   "9pm",
		LeaveUclaTime:  "6pm",
	}
}

func (f *fakeStore) addRider(id uint, seats int, driverID *uint) {
	f.riders[id] = &models.Rider{
		Model:       gorm.Model{ID: id},
		Name:        "rider",
		PhoneNumber: "555-0200",
		SeatsNeeded: seats,
		PickupArea:  "Gayley Heights",
		DriverID:    driverID,
	}
}

func (f *fakeStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	ids := make([]uint, 0, len(f.drivers))
	for id := range f.drivers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Driver, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.drivers[id])
	}
	return out, nil
}

func (f *fakeStore) ListRiders(ctx context.Context) ([]models.Rider, error) {
	ids := make([]uint, 0, len(f.riders))
	for id := range f.riders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Rider, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.riders[id])
	}
	return out, nil
}

func (f *fakeStore) GetDriver(ctx context.Context, id uint) (models.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return models.Driver{}, store.ErrNotFound
	}
	return *d, nil
}

func (f *fakeStore) GetRider(ctx context.Context, id uint) (models.Rider, error) {
	r, ok := f.riders[id]
	if !ok {
		return models.Rider{}, store.ErrNotFound
	}
	return *r, nil
}

func (f *fakeStore) RidersByDriver(ctx context.Context, driverID uint) ([]models.Rider, error) {
	if err := f.failRidersFor[driverID]; err != nil {
		return nil, err
	}
	var out []models.Rider
	for _, r := range f.riders {
		if r.DriverID != nil && *r.DriverID == driverID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateDriver(ctx context.Context, driver *models.Driver) error {
	driver.ID = uint(len(f.drivers) + 1)
	f.drivers[driver.ID] = driver
	return nil
}

func (f *fakeStore) CreateRider(ctx context.Context, rider *models.Rider) error {
	rider.ID = uint(len(f.riders) + 1)
	f.riders[rider.ID] = rider
	return nil
}

func (f *fakeStore) SetRiderDriver(ctx context.Context, riderID uint, driverID *uint) error {
	r, ok := f.riders[riderID]
	if !ok {
		return store.ErrNotFound
	}
	f.driverWrites++
	r.DriverID = driverID
	return nil
}

func (f *fakeStore) UnassignRidersOfDriver(ctx context.Context, driverID uint) error {
	for _, r := range f.riders {
		if r.DriverID != nil && *r.DriverID == driverID {
			r.DriverID = nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteDriver(ctx context.Context, id uint) error {
	if _, ok := f.drivers[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.drivers, id)
	return nil
}

func (f *fakeStore) DeleteRider(ctx context.Context, id uint) error {
	if _, ok := f.riders[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.riders, id)
	return nil
}

func (f *fakeStore) UnassignAllRiders(ctx context.Context) error {
	for _, r := range f.riders {
		r.DriverID = nil
	}
	return nil
}

func (f *fakeStore) DeleteAllRiders(ctx context.Context) error {
	if f.failDeleteAllRiders != nil {
		return f.failDeleteAllRiders
	}
	f.riders = map[uint]*models.Rider{}
	return nil
}

func (f *fakeStore) DeleteAllDrivers(ctx context.Context) error {
	f.drivers = map[uint]*models.Driver{}
	return nil
}

func (f *fakeStore) AppState(ctx context.Context) (models.AppState, error) {
	return f.state, nil
}

func (f *fakeStore) SetFinalized(ctx context.Context, finalized bool) error {
	f.state.IsFinalized = finalized
	return nil
}

func (f *fakeStore) ListPickupAreas(ctx context.Context) ([]models.PickupArea, error) {
	return nil, nil
}

func newTestCoordinator(f *fakeStore) *Coordinator {
	return NewCoordinator(f, matching.Policy{ScanPastNonFitting: true})
}

// ---------------------------------------------------------------------------
// Assignment mutations
// ---------------------------------------------------------------------------

func TestAssignRider_Succeeds(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 3)
	f.addRider(10, 2, nil)

	c := newTestCoordinator(f)
	if err := c.AssignRider(context.Background(), 10, 1); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if f.riders[10].DriverID == nil || *f.riders[10].DriverID != 1 {
		t.Fatalf("rider 10 not assigned to driver 1: %+v", f.riders[10])
	}
}

func TestAssignRider_CapacityRejected(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 2, assignedTo(1))
	f.addRider(11, 3, nil)

	c := newTestCoordinator(f)
	err := c.AssignRider(context.Background(), 11, 1)

	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if f.riders[11].DriverID != nil {
		t.Fatalf("failed assignment must not mutate the rider")
	}
}

func TestAssignRider_NotFound(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 1, nil)
	c := newTestCoordinator(f)

	var nfErr *NotFoundError
	if err := c.AssignRider(context.Background(), 99, 1); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError for missing rider, got %v", err)
	}
	if err := c.AssignRider(context.Background(), 10, 99); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError for missing driver, got %v", err)
	}
}

func TestMoveRider_CapacityChecked(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addDriver(2, 1)
	f.addRider(10, 2, assignedTo(1))

	c := newTestCoordinator(f)
	err := c.MoveRider(context.Background(), 10, 2)

	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if *f.riders[10].DriverID != 1 {
		t.Fatalf("failed move must leave the rider on the old driver")
	}
}

func TestMoveRider_Succeeds(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addDriver(2, 3)
	f.addRider(10, 2, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.MoveRider(context.Background(), 10, 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if *f.riders[10].DriverID != 2 {
		t.Fatalf("rider 10 should now ride with driver 2")
	}
}

func TestMoveRider_SameDriverExcludesOwnSeats(t *testing.T) {
	// Re-assigning a rider to the driver they're already on must not count
	// their own seats against the capacity check.
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 2, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.MoveRider(context.Background(), 10, 1); err != nil {
		t.Fatalf("same-driver move should succeed, got %v", err)
	}
}

func TestUnassignRider(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 1, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.UnassignRider(context.Background(), 10); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	if f.riders[10].DriverID != nil {
		t.Fatalf("rider 10 still assigned")
	}

	var nfErr *NotFoundError
	if err := c.UnassignRider(context.Background(), 99); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteDriver_CascadesUnassign(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 4)
	f.addRider(10, 1, assignedTo(1))
	f.addRider(11, 2, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.DeleteDriver(context.Background(), 1); err != nil {
		t.Fatalf("delete driver failed: %v", err)
	}
	if _, ok := f.drivers[1]; ok {
		t.Fatalf("driver 1 still present")
	}
	if f.riders[10].DriverID != nil || f.riders[11].DriverID != nil {
		t.Fatalf("riders must be unassigned before the driver goes away")
	}

	data, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	for _, m := range data.Matches {
		if m.Driver.ID == 1 {
			t.Fatalf("deleted driver still appears in matches")
		}
	}
}

func TestDeleteRider(t *testing.T) {
	f := newFakeStore()
	f.addRider(10, 1, nil)

	c := newTestCoordinator(f)
	if err := c.DeleteRider(context.Background(), 10); err != nil {
		t.Fatalf("delete rider failed: %v", err)
	}

	var nfErr *NotFoundError
	if err := c.DeleteRider(context.Background(), 10); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestClearAll(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 4)
	f.addDriver(2, 2)
	f.addRider(10, 1, assignedTo(1))
	f.addRider(11, 2, nil)

	c := newTestCoordinator(f)
	if err := c.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all failed: %v", err)
	}
	if len(f.drivers) != 0 || len(f.riders) != 0 {
		t.Fatalf("expected empty store, got %d drivers %d riders", len(f.drivers), len(f.riders))
	}
}

func TestClearAll_AbortsOnFailure(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 4)
	f.addRider(10, 1, assignedTo(1))
	f.failDeleteAllRiders = errors.New("connection reset")

	c := newTestCoordinator(f)
	err := c.ClearAll(context.Background())

	var pErr *PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if len(f.drivers) != 1 {
		t.Fatalf("drivers must survive when the rider wipe fails")
	}
}

// ---------------------------------------------------------------------------
// Capacity audit
// ---------------------------------------------------------------------------

func TestFixOverAssignments_KeepsFirstComeRiders(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 1, assignedTo(1))
	f.addRider(11, 1, assignedTo(1))
	f.addRider(12, 1, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.FixOverAssignments(context.Background()); err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if f.riders[10].DriverID == nil || f.riders[11].DriverID == nil {
		t.Fatalf("first two riders must stay assigned")
	}
	if f.riders[12].DriverID != nil {
		t.Fatalf("third rider must be unassigned")
	}

	assigned, _ := f.RidersByDriver(context.Background(), 1)
	used := 0
	for _, r := range assigned {
		used += r.SeatsNeeded
	}
	if used != 2 {
		t.Fatalf("expected 2 seats used after audit, got %d", used)
	}
}

func TestFixOverAssignments_CutsWholeTail(t *testing.T) {
	// Once one ranked rider fails to fit, everyone after it is released too,
	// even a later rider small enough to squeeze in.
	f := newFakeStore()
	f.addDriver(1, 3)
	f.addRider(10, 2, assignedTo(1))
	f.addRider(11, 2, assignedTo(1)) // does not fit, cut
	f.addRider(12, 1, assignedTo(1)) // would fit, but is after the cut

	c := newTestCoordinator(f)
	if err := c.FixOverAssignments(context.Background()); err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if f.riders[10].DriverID == nil {
		t.Fatalf("rider 10 must stay")
	}
	if f.riders[11].DriverID != nil || f.riders[12].DriverID != nil {
		t.Fatalf("riders 11 and 12 must both be released")
	}
}

func TestFixOverAssignments_Idempotent(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addRider(10, 1, assignedTo(1))
	f.addRider(11, 1, assignedTo(1))
	f.addRider(12, 1, assignedTo(1))

	c := newTestCoordinator(f)
	if err := c.FixOverAssignments(context.Background()); err != nil {
		t.Fatalf("first audit failed: %v", err)
	}
	writes := f.driverWrites
	if err := c.FixOverAssignments(context.Background()); err != nil {
		t.Fatalf("second audit failed: %v", err)
	}
	if f.driverWrites != writes {
		t.Fatalf("second audit made %d extra writes", f.driverWrites-writes)
	}
}

func TestFixOverAssignments_SkipsFailedDriver(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addDriver(2, 1)
	f.addRider(10, 1, assignedTo(2))
	f.addRider(11, 1, assignedTo(2))
	f.failRidersFor[1] = errors.New("connection reset")

	c := newTestCoordinator(f)
	if err := c.FixOverAssignments(context.Background()); err != nil {
		t.Fatalf("audit must continue past one driver's fetch failure, got %v", err)
	}
	if f.riders[11].DriverID != nil {
		t.Fatalf("driver 2's overflow must still be corrected")
	}
}

// ---------------------------------------------------------------------------
// Registrations and the dashboard snapshot
// ---------------------------------------------------------------------------

func TestCreateDriver_Validation(t *testing.T) {
	f := newFakeStore()
	c := newTestCoordinator(f)
	ctx := context.Background()

	cases := []struct {
		name  string
		input DriverInput
	}{
		{"missing fields", DriverInput{Name: "Ahmad"}},
		{"zero seats", DriverInput{Name: "Ahmad", PhoneNumber: "555-0100", PickupArea: "Gayley Heights", LeaveKfmTime: "9pm", LeaveUclaTime: "6pm"}},
		{"too many seats", DriverInput{Name: "Ahmad", PhoneNumber: "555-0100", SeatsAvailable: 9, PickupArea: "Gayley Heights", LeaveKfmTime: "9pm", LeaveUclaTime: "6pm"}},
	}
	for _, tc := range cases {
		_, err := c.CreateDriver(ctx, tc.input)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
	if len(f.drivers) != 0 {
		t.Fatalf("validation failures must not create records")
	}

	_, err := c.CreateDriver(ctx, DriverInput{
		Name: "Ahmad", PhoneNumber: "555-0100", SeatsAvailable: 4,
		PickupArea: "Gayley Heights", LeaveKfmTime: "9pm", LeaveUclaTime: "6pm",
	})
	if err != nil {
		t.Fatalf("valid driver rejected: %v", err)
	}
}

func TestCreateRider_DefaultsSeatsToOne(t *testing.T) {
	f := newFakeStore()
	c := newTestCoordinator(f)

	rider, err := c.CreateRider(context.Background(), RiderInput{
		Name: "Wajid", PhoneNumber: "555-0200", PickupArea: "Gayley Heights",
	})
	if err != nil {
		t.Fatalf("valid rider rejected: %v", err)
	}
	if rider.SeatsNeeded != 1 {
		t.Fatalf("expected seats to default to 1, got %d", rider.SeatsNeeded)
	}
}

func TestDashboard_SnapshotConsistency(t *testing.T) {
	f := newFakeStore()
	f.addDriver(1, 2)
	f.addDriver(2, 3)
	f.addRider(10, 1, assignedTo(1))
	f.addRider(11, 2, nil)

	c := newTestCoordinator(f)
	data, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if len(data.Matches) != len(data.Drivers) {
		t.Fatalf("one match per driver expected: %d matches, %d drivers", len(data.Matches), len(data.Drivers))
	}
	sum := 0
	for _, m := range data.Matches {
		sum += m.TotalSeatsUsed
	}
	if data.TotalSeatsMatched != sum {
		t.Fatalf("stats disagree with matches: %d != %d", data.TotalSeatsMatched, sum)
	}
	if data.TotalDrivers != 2 || data.TotalRiders != 2 || data.TotalMatches != 2 {
		t.Fatalf("unexpected totals: %+v", data.Stats)
	}
}

func TestFinalizeToggle(t *testing.T) {
	f := newFakeStore()
	c := newTestCoordinator(f)
	ctx := context.Background()

	state, err := c.AppState(ctx)
	if err != nil || state.IsFinalized {
		t.Fatalf("expected unfinalized initial state, got %+v err %v", state, err)
	}
	if err := c.Finalize(ctx, true); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	state, _ = c.AppState(ctx)
	if !state.IsFinalized {
		t.Fatalf("finalized flag did not stick")
	}
}

func assignedTo(id uint) *uint {
	return &id
}
