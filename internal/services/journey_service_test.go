package services

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveLegLayoversComputesGapsAndLeavesFinalLegOpen(t *testing.T) {
	dep1 := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	legs, err := DeriveLegLayovers([]JourneyLegInput{
		{
			Sequence:      2,
			FlightNumber:  "UA456",
			DepartureTime: dep1.Add(4*time.Hour + 10*time.Minute),
			ArrivalTime:   dep1.Add(7 * time.Hour),
		},
		{
			Sequence:      1,
			FlightNumber:  "UA123",
			DepartureTime: dep1,
			ArrivalTime:   dep1.Add(2*time.Hour + 30*time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("DeriveLegLayovers: %v", err)
	}

	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}
	if legs[0].FlightNumber != "UA123" {
		t.Fatalf("expected legs sorted by sequence, got %q first", legs[0].FlightNumber)
	}
	if legs[0].LayoverMinutes == nil || *legs[0].LayoverMinutes != 100 {
		t.Fatalf("expected 100 layover minutes on the first leg, got %v", legs[0].LayoverMinutes)
	}
	if legs[1].LayoverMinutes != nil {
		t.Fatalf("expected no layover on the final leg, got %d", *legs[1].LayoverMinutes)
	}
}

func TestDeriveLegLayoversFloorsPartialMinutes(t *testing.T) {
	arrival := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	legs, err := DeriveLegLayovers([]JourneyLegInput{
		{Sequence: 1, ArrivalTime: arrival, DepartureTime: arrival.Add(-2 * time.Hour)},
		{Sequence: 2, DepartureTime: arrival.Add(90*time.Minute + 45*time.Second)},
	})
	if err != nil {
		t.Fatalf("DeriveLegLayovers: %v", err)
	}
	if *legs[0].LayoverMinutes != 90 {
		t.Fatalf("expected 90 minutes, got %d", *legs[0].LayoverMinutes)
	}
}

func TestDeriveLegLayoversRejectsNegativeGap(t *testing.T) {
	arrival := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := DeriveLegLayovers([]JourneyLegInput{
		{Sequence: 1, ArrivalTime: arrival},
		{Sequence: 2, DepartureTime: arrival.Add(-time.Minute)},
	})
	if !errors.Is(err, ErrInvalidLegTiming) {
		t.Fatalf("expected ErrInvalidLegTiming, got %v", err)
	}
}

func TestDeriveLegLayoversRejectsDuplicateSequence(t *testing.T) {
	_, err := DeriveLegLayovers([]JourneyLegInput{
		{Sequence: 1},
		{Sequence: 1},
	})
	if !errors.Is(err, ErrDuplicateLegSeq) {
		t.Fatalf("expected ErrDuplicateLegSeq, got %v", err)
	}
}

func TestDeriveLegLayoversRejectsEmptyInput(t *testing.T) {
	if _, err := DeriveLegLayovers(nil); !errors.Is(err, ErrNoLegs) {
		t.Fatalf("expected ErrNoLegs, got %v", err)
	}
}

func TestDeriveLegLayoversAllowsZeroGap(t *testing.T) {
	arrival := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	legs, err := DeriveLegLayovers([]JourneyLegInput{
		{Sequence: 1, ArrivalTime: arrival},
		{Sequence: 2, DepartureTime: arrival},
	})
	if err != nil {
		t.Fatalf("DeriveLegLayovers: %v", err)
	}
	if legs[0].LayoverMinutes == nil || *legs[0].LayoverMinutes != 0 {
		t.Fatalf("expected a zero-minute layover, got %v", legs[0].LayoverMinutes)
	}
}
