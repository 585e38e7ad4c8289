package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
)

// OwnedLeg resolves a leg together with the user who owns it through the
// leg -> journey -> user chain.
type OwnedLeg struct {
	Leg     models.JourneyLeg
	OwnerID int64
}

type JourneyRepository struct {
	db DBTX
}

func NewJourneyRepository(db DBTX) *JourneyRepository {
	return &JourneyRepository{db: db}
}

func (r *JourneyRepository) Create(ctx context.Context, journey *models.Journey) error {
	query := `
		INSERT INTO journeys (user_id, journey_type, flight_number, departure_airport, arrival_airport, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		journey.UserID,
		journey.JourneyType,
		journey.FlightNumber,
		journey.DepartureAirport,
		journey.ArrivalAirport,
		journey.DepartureTime,
		journey.ArrivalTime,
	).Scan(&journey.ID, &journey.CreatedAt)
}

func (r *JourneyRepository) InsertLeg(ctx context.Context, leg *models.JourneyLeg) error {
	query := `
		INSERT INTO journey_legs (journey_id, sequence, flight_number, departure_airport, arrival_airport, departure_time, arrival_time, layover_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		leg.JourneyID,
		leg.Sequence,
		leg.FlightNumber,
		leg.DepartureAirport,
		leg.ArrivalAirport,
		leg.DepartureTime,
		leg.ArrivalTime,
		leg.LayoverMinutes,
	).Scan(&leg.ID, &leg.CreatedAt)
}

func (r *JourneyRepository) GetByID(ctx context.Context, journeyID int64) (*models.Journey, error) {
	query := `
		SELECT id, user_id, journey_type, flight_number, departure_airport, arrival_airport, departure_time, arrival_time, created_at
		FROM journeys
		WHERE id = $1
	`
	var journey models.Journey
	err := r.db.QueryRow(ctx, query, journeyID).Scan(
		&journey.ID,
		&journey.UserID,
		&journey.JourneyType,
		&journey.FlightNumber,
		&journey.DepartureAirport,
		&journey.ArrivalAirport,
		&journey.DepartureTime,
		&journey.ArrivalTime,
		&journey.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	legs, err := r.ListLegs(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	journey.Legs = legs

	return &journey, nil
}

func (r *JourneyRepository) ListForUser(ctx context.Context, userID int64) ([]models.Journey, error) {
	query := `
		SELECT id, user_id, journey_type, flight_number, departure_airport, arrival_airport, departure_time, arrival_time, created_at
		FROM journeys
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journeys := make([]models.Journey, 0)
	for rows.Next() {
		var journey models.Journey
		if err := rows.Scan(
			&journey.ID,
			&journey.UserID,
			&journey.JourneyType,
			&journey.FlightNumber,
			&journey.DepartureAirport,
			&journey.ArrivalAirport,
			&journey.DepartureTime,
			&journey.ArrivalTime,
			&journey.CreatedAt,
		); err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range journeys {
		legs, err := r.ListLegs(ctx, journeys[i].ID)
		if err != nil {
			return nil, err
		}
		journeys[i].Legs = legs
	}

	return journeys, nil
}

func (r *JourneyRepository) ListLegs(ctx context.Context, journeyID int64) ([]models.JourneyLeg, error) {
	query := `
		SELECT id, journey_id, sequence, flight_number, departure_airport, arrival_airport, departure_time, arrival_time, layover_minutes, created_at
		FROM journey_legs
		WHERE journey_id = $1
		ORDER BY sequence ASC
	`
	rows, err := r.db.Query(ctx, query, journeyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLegs(rows)
}

func (r *JourneyRepository) GetLegWithOwner(ctx context.Context, legID int64) (*OwnedLeg, error) {
	query := `
		SELECT l.id, l.journey_id, l.sequence, l.flight_number, l.departure_airport, l.arrival_airport, l.departure_time, l.arrival_time, l.layover_minutes, l.created_at, j.user_id
		FROM journey_legs l
		JOIN journeys j ON j.id = l.journey_id
		WHERE l.id = $1
	`
	var owned OwnedLeg
	err := r.db.QueryRow(ctx, query, legID).Scan(
		&owned.Leg.ID,
		&owned.Leg.JourneyID,
		&owned.Leg.Sequence,
		&owned.Leg.FlightNumber,
		&owned.Leg.DepartureAirport,
		&owned.Leg.ArrivalAirport,
		&owned.Leg.DepartureTime,
		&owned.Leg.ArrivalTime,
		&owned.Leg.LayoverMinutes,
		&owned.Leg.CreatedAt,
		&owned.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

// FindSameFlightCandidates returns other users' legs on the same flight as
// the reference leg, with departure time within the given tolerance.
func (r *JourneyRepository) FindSameFlightCandidates(
	ctx context.Context,
	ref models.JourneyLeg,
	principalID int64,
	toleranceMinutes int,
) ([]models.CandidateLeg, error) {
	query := `
		SELECT l.id, l.journey_id, l.sequence, l.flight_number, l.departure_airport, l.arrival_airport, l.departure_time, l.arrival_time, l.layover_minutes, l.created_at,
		       u.id, u.first_name, u.last_name
		FROM journey_legs l
		JOIN journeys j ON j.id = l.journey_id
		JOIN users u ON u.id = j.user_id
		WHERE l.id <> $1
		  AND l.flight_number = $2
		  AND l.departure_airport = $3
		  AND l.arrival_airport = $4
		  AND l.departure_time BETWEEN $5::timestamptz - ($6::int * INTERVAL '1 minute')
		                           AND $5::timestamptz + ($6::int * INTERVAL '1 minute')
		  AND j.user_id <> $7
	`
	rows, err := r.db.Query(
		ctx,
		query,
		ref.ID,
		ref.FlightNumber,
		ref.DepartureAirport,
		ref.ArrivalAirport,
		ref.DepartureTime,
		toleranceMinutes,
		principalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// FindLayoverCandidates returns other users' legs arriving at the same
// airport that have a layover of their own. Window overlap is filtered in
// memory by the caller.
func (r *JourneyRepository) FindLayoverCandidates(
	ctx context.Context,
	arrivalAirport string,
	excludeLegID int64,
	principalID int64,
) ([]models.CandidateLeg, error) {
	query := `
		SELECT l.id, l.journey_id, l.sequence, l.flight_number, l.departure_airport, l.arrival_airport, l.departure_time, l.arrival_time, l.layover_minutes, l.created_at,
		       u.id, u.first_name, u.last_name
		FROM journey_legs l
		JOIN journeys j ON j.id = l.journey_id
		JOIN users u ON u.id = j.user_id
		WHERE l.id <> $1
		  AND l.arrival_airport = $2
		  AND l.layover_minutes IS NOT NULL
		  AND j.user_id <> $3
	`
	rows, err := r.db.Query(ctx, query, excludeLegID, arrivalAirport, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandidates(rows)
}

func scanLegs(rows pgx.Rows) ([]models.JourneyLeg, error) {
	legs := make([]models.JourneyLeg, 0)
	for rows.Next() {
		var leg models.JourneyLeg
		if err := rows.Scan(
			&leg.ID,
			&leg.JourneyID,
			&leg.Sequence,
			&leg.FlightNumber,
			&leg.DepartureAirport,
			&leg.ArrivalAirport,
			&leg.DepartureTime,
			&leg.ArrivalTime,
			&leg.LayoverMinutes,
			&leg.CreatedAt,
		); err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return legs, nil
}

func scanCandidates(rows pgx.Rows) ([]models.CandidateLeg, error) {
	candidates := make([]models.CandidateLeg, 0)
	for rows.Next() {
		var candidate models.CandidateLeg
		if err := rows.Scan(
			&candidate.Leg.ID,
			&candidate.Leg.JourneyID,
			&candidate.Leg.Sequence,
			&candidate.Leg.FlightNumber,
			&candidate.Leg.DepartureAirport,
			&candidate.Leg.ArrivalAirport,
			&candidate.Leg.DepartureTime,
			&candidate.Leg.ArrivalTime,
			&candidate.Leg.LayoverMinutes,
			&candidate.Leg.CreatedAt,
			&candidate.User.ID,
			&candidate.User.FirstName,
			&candidate.User.LastName,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}
