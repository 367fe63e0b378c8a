package matching

import (
	"testing"

	"github.com/AhmadWajid/kfmruns/internal/models"
)

func TestAggregateStats_Totals(t *testing.T) {
	drivers := []models.Driver{
		driver(1, "Ackerman Turnaround", 4),
		driver(2, "Gayley Heights", 2),
	}
	riders := []models.Rider{
		rider(10, "Ackerman Turnaround", 2, assignedTo(1)),
		rider(11, "Gayley Heights", 1, assignedTo(2)),
		rider(12, "Gayley Heights", 3, nil),
	}
	matches, unmatched := Resolve(drivers, riders, Policy{})

	s := AggregateStats(drivers, riders, matches, unmatched)
	if s.TotalDrivers != 2 || s.TotalRiders != 3 {
		t.Fatalf("unexpected record counts: %+v", s)
	}
	if s.TotalMatches != 2 {
		t.Fatalf("total matches must equal driver count, got %d", s.TotalMatches)
	}
	if s.TotalUnmatched != 1 {
		t.Fatalf("expected 1 unmatched, got %d", s.TotalUnmatched)
	}
	if s.TotalSeatsAvailable != 6 {
		t.Fatalf("expected 6 seats available, got %d", s.TotalSeatsAvailable)
	}
	if s.TotalSeatsNeeded != 6 {
		t.Fatalf("expected 6 seats needed, got %d", s.TotalSeatsNeeded)
	}
	if s.TotalSeatsMatched != 3 {
		t.Fatalf("expected 3 seats matched, got %d", s.TotalSeatsMatched)
	}
}

// Seats matched must always equal the sum of seats used across the matches
// produced by Resolve for the same input, auto-fill on or off.
func TestAggregateStats_ConsistentWithResolver(t *testing.T) {
	drivers := []models.Driver{
		driver(1, "Ackerman Turnaround", 2),
		driver(2, "Gayley Heights", 3),
	}
	riders := []models.Rider{
		rider(10, "Ackerman Turnaround", 1, assignedTo(1)),
		rider(11, "Ackerman Turnaround", 1, assignedTo(1)),
		rider(12, "Ackerman Turnaround", 1, assignedTo(1)), // overcapacity passthrough
		rider(13, "Gayley Heights", 2, nil),
	}

	for _, p := range []Policy{
		{},
		{AutoFillSameArea: true, ScanPastNonFitting: true},
		{AutoFillSameArea: true, ScanPastNonFitting: false},
	} {
		matches, unmatched := Resolve(drivers, riders, p)
		s := AggregateStats(drivers, riders, matches, unmatched)

		sum := 0
		for _, m := range matches {
			sum += m.TotalSeatsUsed
		}
		if s.TotalSeatsMatched != sum {
			t.Fatalf("policy %+v: seats matched %d != sum of seats used %d", p, s.TotalSeatsMatched, sum)
		}
	}
}

func TestAggregateStats_Empty(t *testing.T) {
	s := AggregateStats(nil, nil, nil, nil)
	if s != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}
