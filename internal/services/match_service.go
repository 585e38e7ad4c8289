package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/repository"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrSelfMatch      = errors.New("cannot match with yourself")
	ErrDuplicateMatch = errors.New("match already exists for this pair and flight")
	ErrFlightMismatch = errors.New("legs are not on the same flight")
	ErrNotPending     = errors.New("match is no longer pending")
	ErrInvalidInput   = errors.New("invalid input")
)

// MatchNotifier pushes lifecycle events to connected travelers. It must not
// block; delivery is best effort.
type MatchNotifier interface {
	MatchRequested(receiverID int64, match *models.Match)
	MatchAccepted(senderID int64, match *models.Match, chat *models.Chat)
}

// MatchAcceptance is the result of the accept transition: the updated match
// and the chat created in the same transaction.
type MatchAcceptance struct {
	Match *models.Match `json:"match"`
	Chat  *models.Chat  `json:"chat"`
}

type MatchService struct {
	db                *pgxpool.Pool
	matchRepo         *repository.MatchRepository
	journeyRepo       *repository.JourneyRepository
	chatRepo          *repository.ChatRepository
	notifier          MatchNotifier
	toleranceMinutes  int
	minLayoverOverlap time.Duration
}

func NewMatchService(
	db *pgxpool.Pool,
	matchRepo *repository.MatchRepository,
	journeyRepo *repository.JourneyRepository,
	chatRepo *repository.ChatRepository,
	notifier MatchNotifier,
	toleranceMinutes int,
	minLayoverOverlapMinutes int,
) *MatchService {
	return &MatchService{
		db:                db,
		matchRepo:         matchRepo,
		journeyRepo:       journeyRepo,
		chatRepo:          chatRepo,
		notifier:          notifier,
		toleranceMinutes:  toleranceMinutes,
		minLayoverOverlap: time.Duration(minLayoverOverlapMinutes) * time.Minute,
	}
}

// ownedLeg resolves the leg -> journey -> user chain and enforces that the
// principal owns the leg. pgx.ErrNoRows passes through for absent legs.
func (s *MatchService) ownedLeg(
	ctx context.Context,
	principalID int64,
	legID int64,
) (*repository.OwnedLeg, error) {
	owned, err := s.journeyRepo.GetLegWithOwner(ctx, legID)
	if err != nil {
		return nil, err
	}
	if owned.OwnerID != principalID {
		return nil, ErrForbidden
	}
	return owned, nil
}

// FindPotentialMatches runs both discovery rules for one leg and collapses
// the merged result to one entry per counterpart user.
func (s *MatchService) FindPotentialMatches(
	ctx context.Context,
	principalID int64,
	legID int64,
) ([]models.PotentialMatch, error) {
	owned, err := s.ownedLeg(ctx, principalID, legID)
	if err != nil {
		return nil, err
	}
	leg := owned.Leg

	interactions, err := s.matchRepo.ListByUserAndFlightKey(ctx, principalID, leg.FlightNumber, leg.DepartureTime)
	if err != nil {
		return nil, err
	}
	excluded := ExcludedCounterparts(interactions, principalID)

	// Leg-level discovery demands exact departure time equality.
	sameFlight, err := s.journeyRepo.FindSameFlightCandidates(ctx, leg, principalID, 0)
	if err != nil {
		return nil, err
	}

	var layover []models.CandidateLeg
	if window, ok := LayoverWindowOf(leg); ok {
		candidates, err := s.journeyRepo.FindLayoverCandidates(ctx, leg.ArrivalAirport, leg.ID, principalID)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			if _, overlaps := s.qualifyingOverlap(window, candidate.Leg); overlaps {
				layover = append(layover, candidate)
			}
		}
	}

	return mergeCandidatesByUser(sameFlight, layover, excluded), nil
}

// FindMatchesByJourney runs discovery for every leg of a journey. Results
// are grouped per originating leg and kept in two parallel lists; a user can
// appear once per leg and rule family.
func (s *MatchService) FindMatchesByJourney(
	ctx context.Context,
	principalID int64,
	journeyID int64,
) (*models.JourneyMatchResults, error) {
	journey, err := s.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if journey.UserID != principalID {
		return nil, ErrForbidden
	}

	results := &models.JourneyMatchResults{
		SameFlightMatches: make([]models.SameFlightMatch, 0),
		LayoverMatches:    make([]models.LayoverMatch, 0),
	}

	for _, leg := range journey.Legs {
		interactions, err := s.matchRepo.ListByUserAndFlightKey(ctx, principalID, leg.FlightNumber, leg.DepartureTime)
		if err != nil {
			return nil, err
		}
		excluded := ExcludedCounterparts(interactions, principalID)

		sameFlight, err := s.journeyRepo.FindSameFlightCandidates(ctx, leg, principalID, s.toleranceMinutes)
		if err != nil {
			return nil, err
		}
		for _, candidate := range sameFlight {
			if _, skip := excluded[candidate.User.ID]; skip {
				continue
			}
			results.SameFlightMatches = append(results.SameFlightMatches, models.SameFlightMatch{
				MyLeg:    leg,
				OtherLeg: candidate.Leg,
				User:     candidate.User,
			})
		}

		window, ok := LayoverWindowOf(leg)
		if !ok {
			continue
		}
		candidates, err := s.journeyRepo.FindLayoverCandidates(ctx, leg.ArrivalAirport, leg.ID, principalID)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			if _, skip := excluded[candidate.User.ID]; skip {
				continue
			}
			minutes, overlaps := s.qualifyingOverlap(window, candidate.Leg)
			if !overlaps {
				continue
			}
			results.LayoverMatches = append(results.LayoverMatches, models.LayoverMatch{
				MyLeg:          leg,
				OtherLeg:       candidate.Leg,
				User:           candidate.User,
				OverlapMinutes: minutes,
			})
		}
	}

	return results, nil
}

func (s *MatchService) qualifyingOverlap(window LayoverWindow, other models.JourneyLeg) (int, bool) {
	otherWindow, ok := LayoverWindowOf(other)
	if !ok {
		return 0, false
	}
	overlap := WindowOverlap(window, otherWindow)
	if overlap < s.minLayoverOverlap {
		return 0, false
	}
	return OverlapMinutes(overlap), true
}

// mergeCandidatesByUser collapses discovery hits to one per counterpart,
// dropping excluded users. Later rule families overwrite earlier ones.
func mergeCandidatesByUser(
	sameFlight []models.CandidateLeg,
	layover []models.CandidateLeg,
	excluded map[int64]struct{},
) []models.PotentialMatch {
	order := make([]int64, 0, len(sameFlight)+len(layover))
	byUser := make(map[int64]models.CandidateLeg, len(sameFlight)+len(layover))
	for _, candidate := range append(append([]models.CandidateLeg{}, sameFlight...), layover...) {
		if _, skip := excluded[candidate.User.ID]; skip {
			continue
		}
		if _, seen := byUser[candidate.User.ID]; !seen {
			order = append(order, candidate.User.ID)
		}
		byUser[candidate.User.ID] = candidate
	}

	merged := make([]models.PotentialMatch, 0, len(order))
	for _, userID := range order {
		candidate := byUser[userID]
		merged = append(merged, models.PotentialMatch{User: candidate.User, Leg: candidate.Leg})
	}
	return merged
}

// CreateMatch records a PENDING interaction from sender to receiver.
func (s *MatchService) CreateMatch(
	ctx context.Context,
	senderID int64,
	senderLegID int64,
	receiverID int64,
	receiverLegID int64,
) (*models.Match, error) {
	match, err := s.createInteraction(ctx, senderID, senderLegID, receiverID, receiverLegID, models.MatchStatusPending)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.MatchRequested(receiverID, match)
	}
	return match, nil
}

// DismissMatch records the interaction as REJECTED directly, so the
// counterpart stops being suggested without ever receiving a request.
func (s *MatchService) DismissMatch(
	ctx context.Context,
	senderID int64,
	senderLegID int64,
	receiverID int64,
	receiverLegID int64,
) (*models.Match, error) {
	return s.createInteraction(ctx, senderID, senderLegID, receiverID, receiverLegID, models.MatchStatusRejected)
}

func (s *MatchService) createInteraction(
	ctx context.Context,
	senderID int64,
	senderLegID int64,
	receiverID int64,
	receiverLegID int64,
	status string,
) (*models.Match, error) {
	if senderID == receiverID {
		return nil, ErrSelfMatch
	}

	senderLeg, err := s.resolveRef(ctx, senderID, senderLegID)
	if err != nil {
		return nil, err
	}
	receiverLeg, err := s.resolveRef(ctx, receiverID, receiverLegID)
	if err != nil {
		return nil, err
	}

	if senderLeg.FlightNumber != receiverLeg.FlightNumber ||
		!senderLeg.DepartureTime.Equal(receiverLeg.DepartureTime) {
		return nil, ErrFlightMismatch
	}

	exists, err := s.matchRepo.ExistsForPair(ctx, senderID, receiverID, senderLeg.FlightNumber, senderLeg.DepartureTime)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateMatch
	}

	match := &models.Match{
		SenderID:      senderID,
		ReceiverID:    receiverID,
		SenderLegID:   senderLeg.ID,
		ReceiverLegID: receiverLeg.ID,
		FlightNumber:  senderLeg.FlightNumber,
		DepartureTime: senderLeg.DepartureTime,
		Status:        status,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		// A concurrent insert for the same pair lands on the unordered-pair
		// unique index; surfaced as the same conflict as the pre-check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateMatch
		}
		return nil, err
	}
	return match, nil
}

// resolveRef validates one side's leg reference. Both absence and foreign
// ownership are forbidden here: a caller naming someone else's leg learns
// nothing about whether it exists.
func (s *MatchService) resolveRef(
	ctx context.Context,
	ownerID int64,
	legID int64,
) (*models.JourneyLeg, error) {
	owned, err := s.journeyRepo.GetLegWithOwner(ctx, legID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if owned.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return &owned.Leg, nil
}

// ListPendingMatches returns the PENDING requests addressed to the principal
// on one of their legs.
func (s *MatchService) ListPendingMatches(
	ctx context.Context,
	principalID int64,
	legID int64,
) ([]models.Match, error) {
	if _, err := s.ownedLeg(ctx, principalID, legID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListPendingForReceiverByLeg(ctx, principalID, legID)
}

// AcceptMatch flips a PENDING match to ACCEPTED and bootstraps its chat.
// The status update, the chat insert and both read-state inserts commit as
// one transaction; the status update is conditioned on the row still being
// PENDING, so a concurrent resolve sees ErrNotPending instead of creating a
// second chat.
func (s *MatchService) AcceptMatch(
	ctx context.Context,
	principalID int64,
	matchID int64,
) (*MatchAcceptance, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.ReceiverID != principalID {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchStatusPending {
		return nil, ErrNotPending
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMatchRepo := repository.NewMatchRepository(tx)
	txChatRepo := repository.NewChatRepository(tx)

	updated, err := txMatchRepo.UpdateStatusIfPending(ctx, matchID, models.MatchStatusAccepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	chat, err := txChatRepo.Create(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := txChatRepo.SeedReadState(ctx, chat.ID, updated.SenderID); err != nil {
		return nil, err
	}
	if err := txChatRepo.SeedReadState(ctx, chat.ID, updated.ReceiverID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.MatchAccepted(updated.SenderID, updated, chat)
	}

	return &MatchAcceptance{Match: updated, Chat: chat}, nil
}

// RejectMatch flips a PENDING match to REJECTED. No chat side effects.
func (s *MatchService) RejectMatch(
	ctx context.Context,
	principalID int64,
	matchID int64,
) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.ReceiverID != principalID {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchStatusPending {
		return nil, ErrNotPending
	}

	updated, err := s.matchRepo.UpdateStatusIfPending(ctx, matchID, models.MatchStatusRejected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	return updated, nil
}
