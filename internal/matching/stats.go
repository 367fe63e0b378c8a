package matching

import "github.com/AhmadWajid/kfmruns/internal/models"

// Stats are the dashboard summary counts derived from one resolved snapshot.
type Stats struct {
	TotalDrivers        int `json:"total_drivers"`
	TotalRiders         int `json:"total_riders"`
	TotalMatches        int `json:"total_matches"`
	TotalUnmatched      int `json:"total_unmatched"`
	TotalSeatsAvailable int `json:"total_seats_available"`
	TotalSeatsNeeded    int `json:"total_seats_needed"`
	TotalSeatsMatched   int `json:"total_seats_matched"`
}

// AggregateStats derives the summary counts from raw records and the resolved
// matches. Pure arithmetic; feed it the same snapshot Resolve saw so the
// numbers stay consistent with the match list.
func AggregateStats(drivers []models.Driver, riders []models.Rider, matches []Match, unmatched []UnmatchedRider) Stats {
	s := Stats{
		TotalDrivers:   len(drivers),
		TotalRiders:    len(riders),
		TotalMatches:   len(matches),
		TotalUnmatched: len(unmatched),
	}
	for _, d := range drivers {
		s.TotalSeatsAvailable += d.SeatsAvailable
	}
	for _, r := range riders {
		s.TotalSeatsNeeded += r.SeatsNeeded
	}
	for _, m := range matches {
		s.TotalSeatsMatched += m.TotalSeatsUsed
	}
	return s
}
