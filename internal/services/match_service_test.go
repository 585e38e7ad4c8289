package services

import (
	"testing"
	"time"

	"github.com/puddu045/Layo-backend/internal/models"
)

func candidate(userID int64, legID int64) models.CandidateLeg {
	return models.CandidateLeg{
		Leg:  models.JourneyLeg{ID: legID},
		User: models.UserSummary{ID: userID},
	}
}

func TestMergeCandidatesByUserKeepsFirstSeenOrder(t *testing.T) {
	merged := mergeCandidatesByUser(
		[]models.CandidateLeg{candidate(10, 1), candidate(11, 2)},
		[]models.CandidateLeg{candidate(12, 3)},
		nil,
	)

	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	for i, want := range []int64{10, 11, 12} {
		if merged[i].User.ID != want {
			t.Fatalf("expected user %d at position %d, got %d", want, i, merged[i].User.ID)
		}
	}
}

func TestMergeCandidatesByUserCollapsesToOnePerUser(t *testing.T) {
	merged := mergeCandidatesByUser(
		[]models.CandidateLeg{candidate(10, 1)},
		[]models.CandidateLeg{candidate(10, 2)},
		nil,
	)

	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].Leg.ID != 2 {
		t.Fatalf("expected the later hit to win, got leg %d", merged[0].Leg.ID)
	}
}

func TestMergeCandidatesByUserDropsExcludedUsers(t *testing.T) {
	merged := mergeCandidatesByUser(
		[]models.CandidateLeg{candidate(10, 1), candidate(11, 2)},
		nil,
		map[int64]struct{}{10: {}},
	)

	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].User.ID != 11 {
		t.Fatalf("expected user 11, got %d", merged[0].User.ID)
	}
}

func TestQualifyingOverlapEnforcesMinimum(t *testing.T) {
	service := NewMatchService(nil, nil, nil, nil, nil, 5, 90)
	arrival := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	window := LayoverWindow{Start: arrival, End: arrival.Add(3 * time.Hour)}

	short := 89
	if _, ok := service.qualifyingOverlap(window, models.JourneyLeg{
		ArrivalTime:    arrival,
		LayoverMinutes: &short,
	}); ok {
		t.Fatal("expected an 89-minute overlap to be rejected")
	}

	exact := 90
	minutes, ok := service.qualifyingOverlap(window, models.JourneyLeg{
		ArrivalTime:    arrival,
		LayoverMinutes: &exact,
	})
	if !ok {
		t.Fatal("expected a 90-minute overlap to qualify")
	}
	if minutes != 90 {
		t.Fatalf("expected 90 overlap minutes, got %d", minutes)
	}
}

func TestQualifyingOverlapSkipsFinalLegs(t *testing.T) {
	service := NewMatchService(nil, nil, nil, nil, nil, 5, 90)
	window := LayoverWindow{Start: time.Now(), End: time.Now().Add(4 * time.Hour)}

	if _, ok := service.qualifyingOverlap(window, models.JourneyLeg{ArrivalTime: time.Now()}); ok {
		t.Fatal("expected a leg without a layover to be rejected")
	}
}
