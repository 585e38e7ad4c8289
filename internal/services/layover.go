package services

import (
	"time"

	"github.com/puddu045/Layo-backend/internal/models"
)

// LayoverWindow is the half-open interval [Start, End) a traveler spends at
// a leg's arrival airport.
type LayoverWindow struct {
	Start time.Time
	End   time.Time
}

// LayoverWindowOf converts a leg's arrival time and layover minutes into its
// window. The second return value is false when the leg has no layover.
func LayoverWindowOf(leg models.JourneyLeg) (LayoverWindow, bool) {
	if leg.LayoverMinutes == nil || *leg.LayoverMinutes <= 0 {
		return LayoverWindow{}, false
	}
	return LayoverWindow{
		Start: leg.ArrivalTime,
		End:   leg.ArrivalTime.Add(time.Duration(*leg.LayoverMinutes) * time.Minute),
	}, true
}

// WindowOverlap intersects two layover windows and returns the overlap
// duration. Disjoint windows yield zero.
func WindowOverlap(a, b LayoverWindow) time.Duration {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// OverlapMinutes reports a window overlap in whole minutes, rounded down.
func OverlapMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
