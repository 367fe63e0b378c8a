// Package matching computes the rider/driver assignment view and its
// summary statistics. Everything here is pure: inputs are never mutated and
// no I/O happens. Writing driver_id is the coordinator's job, never ours.
package matching

import (
	"sort"

	"github.com/AhmadWajid/kfmruns/internal/models"
)

// UnmatchedReason annotates riders left without a driver.
const UnmatchedReason = "No compatible driver found"

// Policy controls the optional auto-fill step of Resolve.
type Policy struct {
	// AutoFillSameArea tops up a driver's remaining seats with unassigned
	// riders from the same pickup area. When false only riders with a
	// confirmed driver_id appear in matches.
	AutoFillSameArea bool
	// ScanPastNonFitting keeps scanning for a smaller candidate after one
	// that does not fit; when false auto-fill stops at the first non-fit.
	ScanPastNonFitting bool
}

// Match pairs a driver with the riders currently riding with them.
type Match struct {
	Driver         models.Driver  `json:"driver"`
	Riders         []models.Rider `json:"riders"`
	TotalSeatsUsed int            `json:"total_seats_used"`
	RemainingSeats int            `json:"remaining_seats"`
}

// UnmatchedRider is a rider with no confirmed driver.
type UnmatchedRider struct {
	models.Rider
	Reason string `json:"reason"`
}

// Resolve computes one Match per driver plus the list of unmatched riders.
//
// Drivers are ordered by pickup area, then leave-time preference, then ID, so
// the dashboard ordering is stable across refreshes. Riders whose DriverID
// already points at a driver are honored verbatim, even past capacity:
// over-assignment is corrected explicitly by the capacity audit, never
// silently here. Auto-filled riders (policy-dependent) appear in the computed
// match only; their stored DriverID stays nil.
func Resolve(drivers []models.Driver, riders []models.Rider, p Policy) ([]Match, []UnmatchedRider) {
	sorted := make([]models.Driver, len(drivers))
	copy(sorted, drivers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PickupArea != sorted[j].PickupArea {
			return sorted[i].PickupArea < sorted[j].PickupArea
		}
		if sorted[i].LeaveKfmTime != sorted[j].LeaveKfmTime {
			return sorted[i].LeaveKfmTime < sorted[j].LeaveKfmTime
		}
		return sorted[i].ID < sorted[j].ID
	})

	matches := make([]Match, 0, len(sorted))
	used := make(map[uint]bool)

	for _, driver := range sorted {
		var assigned []models.Rider
		remaining := driver.SeatsAvailable

		for _, rider := range riders {
			if rider.DriverID != nil && *rider.DriverID == driver.ID {
				assigned = append(assigned, rider)
				used[rider.ID] = true
				remaining -= rider.SeatsNeeded
			}
		}

		if p.AutoFillSameArea && remaining > 0 {
			assigned, remaining = autoFill(driver, riders, assigned, remaining, used, p.ScanPastNonFitting)
		}

		matches = append(matches, Match{
			Driver:         driver,
			Riders:         assigned,
			TotalSeatsUsed: driver.SeatsAvailable - remaining,
			RemainingSeats: max(0, remaining),
		})
	}

	var unmatched []UnmatchedRider
	for _, rider := range riders {
		if !used[rider.ID] && rider.DriverID == nil {
			unmatched = append(unmatched, UnmatchedRider{Rider: rider, Reason: UnmatchedReason})
		}
	}

	return matches, unmatched
}

// autoFill consumes unassigned same-area riders in ascending-ID order until
// the driver is full. A candidate needing more seats than remain is never
// forced in; depending on scanPast we either look for a smaller one or stop.
func autoFill(driver models.Driver, riders []models.Rider, assigned []models.Rider, remaining int, used map[uint]bool, scanPast bool) ([]models.Rider, int) {
	candidates := make([]models.Rider, 0)
	for _, rider := range riders {
		if rider.DriverID == nil && !used[rider.ID] && rider.PickupArea == driver.PickupArea {
			candidates = append(candidates, rider)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for _, rider := range candidates {
		if remaining <= 0 {
			break
		}
		if rider.SeatsNeeded > remaining {
			if scanPast {
				continue
			}
			break
		}
		assigned = append(assigned, rider)
		used[rider.ID] = true
		remaining -= rider.SeatsNeeded
	}
	return assigned, remaining
}
