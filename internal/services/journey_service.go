package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/repository"
)

var (
	ErrNoLegs           = errors.New("journey must have at least one leg")
	ErrDuplicateLegSeq  = errors.New("duplicate leg sequence")
	ErrInvalidLegTiming = errors.New("invalid leg timing: arrival after next departure")
)

type JourneyLegInput struct {
	Sequence         int
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
}

type CreateJourneyInput struct {
	JourneyType string
	Legs        []JourneyLegInput
}

type JourneyService struct {
	db          *pgxpool.Pool
	journeyRepo *repository.JourneyRepository
}

func NewJourneyService(db *pgxpool.Pool, journeyRepo *repository.JourneyRepository) *JourneyService {
	return &JourneyService{db: db, journeyRepo: journeyRepo}
}

// DeriveLegLayovers orders legs by sequence and computes each leg's layover
// minutes from the gap to the next departure. The final leg gets nil. A
// negative gap is rejected here, at creation time, never at match time.
func DeriveLegLayovers(inputs []JourneyLegInput) ([]models.JourneyLeg, error) {
	if len(inputs) == 0 {
		return nil, ErrNoLegs
	}

	ordered := make([]JourneyLegInput, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	legs := make([]models.JourneyLeg, 0, len(ordered))
	for i, input := range ordered {
		if i > 0 && input.Sequence == ordered[i-1].Sequence {
			return nil, ErrDuplicateLegSeq
		}

		leg := models.JourneyLeg{
			Sequence:         input.Sequence,
			FlightNumber:     input.FlightNumber,
			DepartureAirport: input.DepartureAirport,
			ArrivalAirport:   input.ArrivalAirport,
			DepartureTime:    input.DepartureTime,
			ArrivalTime:      input.ArrivalTime,
		}

		if i < len(ordered)-1 {
			gap := ordered[i+1].DepartureTime.Sub(input.ArrivalTime)
			if gap < 0 {
				return nil, ErrInvalidLegTiming
			}
			minutes := int(gap / time.Minute)
			leg.LayoverMinutes = &minutes
		}

		legs = append(legs, leg)
	}

	return legs, nil
}

// CreateJourney persists a journey and its legs in one transaction. The
// journey's summary fields are denormalized from the first and last leg.
func (s *JourneyService) CreateJourney(
	ctx context.Context,
	userID int64,
	input CreateJourneyInput,
) (*models.Journey, error) {
	legs, err := DeriveLegLayovers(input.Legs)
	if err != nil {
		return nil, err
	}

	first := legs[0]
	last := legs[len(legs)-1]
	journey := &models.Journey{
		UserID:           userID,
		JourneyType:      input.JourneyType,
		FlightNumber:     first.FlightNumber,
		DepartureAirport: first.DepartureAirport,
		ArrivalAirport:   last.ArrivalAirport,
		DepartureTime:    first.DepartureTime,
		ArrivalTime:      last.ArrivalTime,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txJourneyRepo := repository.NewJourneyRepository(tx)

	if err := txJourneyRepo.Create(ctx, journey); err != nil {
		return nil, err
	}
	for i := range legs {
		legs[i].JourneyID = journey.ID
		if err := txJourneyRepo.InsertLeg(ctx, &legs[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	journey.Legs = legs
	return journey, nil
}

func (s *JourneyService) ListJourneys(ctx context.Context, userID int64) ([]models.Journey, error) {
	return s.journeyRepo.ListForUser(ctx, userID)
}

// GetJourney loads a journey the principal owns.
func (s *JourneyService) GetJourney(
	ctx context.Context,
	principalID int64,
	journeyID int64,
) (*models.Journey, error) {
	journey, err := s.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if journey.UserID != principalID {
		return nil, ErrForbidden
	}
	return journey, nil
}
