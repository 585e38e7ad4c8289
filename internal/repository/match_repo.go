package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
)

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match with the given status. The unordered-pair unique
// index makes a concurrent duplicate surface as a constraint violation,
// which the service translates to a conflict.
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (sender_id, receiver_id, sender_leg_id, receiver_leg_id, flight_number, departure_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		match.SenderID,
		match.ReceiverID,
		match.SenderLegID,
		match.ReceiverLegID,
		match.FlightNumber,
		match.DepartureTime,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*models.Match, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_leg_id, receiver_leg_id, flight_number, departure_time, status, created_at, updated_at
		FROM matches
		WHERE id = $1
	`
	var match models.Match
	err := r.db.QueryRow(ctx, query, matchID).Scan(
		&match.ID,
		&match.SenderID,
		&match.ReceiverID,
		&match.SenderLegID,
		&match.ReceiverLegID,
		&match.FlightNumber,
		&match.DepartureTime,
		&match.Status,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListByUserAndFlightKey returns every match, regardless of status, where
// the user is on either side and the flight key matches. Feeds the
// exclusion set.
func (r *MatchRepository) ListByUserAndFlightKey(
	ctx context.Context,
	userID int64,
	flightNumber string,
	departureTime time.Time,
) ([]models.Match, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_leg_id, receiver_leg_id, flight_number, departure_time, status, created_at, updated_at
		FROM matches
		WHERE (sender_id = $1 OR receiver_id = $1)
		  AND flight_number = $2
		  AND departure_time = $3
	`
	rows, err := r.db.Query(ctx, query, userID, flightNumber, departureTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *MatchRepository) ExistsForPair(
	ctx context.Context,
	userA int64,
	userB int64,
	flightNumber string,
	departureTime time.Time,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM matches
			WHERE LEAST(sender_id, receiver_id) = LEAST($1::bigint, $2::bigint)
			  AND GREATEST(sender_id, receiver_id) = GREATEST($1::bigint, $2::bigint)
			  AND flight_number = $3
			  AND departure_time = $4
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userA, userB, flightNumber, departureTime).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MatchRepository) ListPendingForReceiverByLeg(
	ctx context.Context,
	receiverID int64,
	legID int64,
) ([]models.Match, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_leg_id, receiver_leg_id, flight_number, departure_time, status, created_at, updated_at
		FROM matches
		WHERE receiver_id = $1
		  AND receiver_leg_id = $2
		  AND status = 'PENDING'
	`
	rows, err := r.db.Query(ctx, query, receiverID, legID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMatches(rows)
}

// UpdateStatusIfPending flips a match out of PENDING only if it is still
// PENDING at the moment of update. Returns pgx.ErrNoRows when another actor
// already resolved it.
func (r *MatchRepository) UpdateStatusIfPending(
	ctx context.Context,
	matchID int64,
	nextStatus string,
) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, sender_id, receiver_id, sender_leg_id, receiver_leg_id, flight_number, departure_time, status, created_at, updated_at
	`
	var match models.Match
	err := r.db.QueryRow(ctx, query, matchID, nextStatus).Scan(
		&match.ID,
		&match.SenderID,
		&match.ReceiverID,
		&match.SenderLegID,
		&match.ReceiverLegID,
		&match.FlightNumber,
		&match.DepartureTime,
		&match.Status,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(
			&match.ID,
			&match.SenderID,
			&match.ReceiverID,
			&match.SenderLegID,
			&match.ReceiverLegID,
			&match.FlightNumber,
			&match.DepartureTime,
			&match.Status,
			&match.CreatedAt,
			&match.UpdatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
