package services

import (
	"testing"
	"time"

	"github.com/puddu045/Layo-backend/internal/models"
)

func legWithLayover(arrival time.Time, layoverMinutes int) models.JourneyLeg {
	return models.JourneyLeg{
		ArrivalAirport: "ORD",
		ArrivalTime:    arrival,
		LayoverMinutes: &layoverMinutes,
	}
}

func TestLayoverWindowOfBuildsHalfOpenInterval(t *testing.T) {
	arrival := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	window, ok := LayoverWindowOf(legWithLayover(arrival, 120))
	if !ok {
		t.Fatal("expected a window for a leg with a layover")
	}
	if !window.Start.Equal(arrival) {
		t.Fatalf("expected start %v, got %v", arrival, window.Start)
	}
	if want := arrival.Add(2 * time.Hour); !window.End.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, window.End)
	}
}

func TestLayoverWindowOfRejectsFinalLeg(t *testing.T) {
	leg := models.JourneyLeg{ArrivalTime: time.Now()}
	if _, ok := LayoverWindowOf(leg); ok {
		t.Fatal("expected no window for a leg without layover minutes")
	}
}

func TestLayoverWindowOfRejectsZeroMinutes(t *testing.T) {
	if _, ok := LayoverWindowOf(legWithLayover(time.Now(), 0)); ok {
		t.Fatal("expected no window for a zero-minute layover")
	}
}

func TestWindowOverlapDisjointWindowsYieldZero(t *testing.T) {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	a := LayoverWindow{Start: base, End: base.Add(time.Hour)}
	b := LayoverWindow{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}

	if got := WindowOverlap(a, b); got != 0 {
		t.Fatalf("expected zero overlap for adjoining windows, got %v", got)
	}
}

func TestWindowOverlapIntersectsLateStartEarlyEnd(t *testing.T) {
	base := time.Date(2026, 6, 1, 13, 30, 0, 0, time.UTC)
	// One traveler at ORD 13:30-16:30, another 15:20-18:20. They share the
	// airport from 15:20 to 16:30.
	a := LayoverWindow{Start: base, End: base.Add(3 * time.Hour)}
	b := LayoverWindow{Start: base.Add(110 * time.Minute), End: base.Add(290 * time.Minute)}

	overlap := WindowOverlap(a, b)
	if got := OverlapMinutes(overlap); got != 70 {
		t.Fatalf("expected 70 overlap minutes, got %d", got)
	}
}

func TestOverlapMinutesRoundsDown(t *testing.T) {
	if got := OverlapMinutes(89*time.Minute + 59*time.Second); got != 89 {
		t.Fatalf("expected 89, got %d", got)
	}
	if got := OverlapMinutes(90 * time.Minute); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}
