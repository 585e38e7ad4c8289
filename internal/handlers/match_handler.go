package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/services"
)

type matchApplicationService interface {
	FindPotentialMatches(ctx context.Context, principalID int64, legID int64) ([]models.PotentialMatch, error)
	FindMatchesByJourney(ctx context.Context, principalID int64, journeyID int64) (*models.JourneyMatchResults, error)
	CreateMatch(ctx context.Context, senderID, senderLegID, receiverID, receiverLegID int64) (*models.Match, error)
	DismissMatch(ctx context.Context, senderID, senderLegID, receiverID, receiverLegID int64) (*models.Match, error)
	ListPendingMatches(ctx context.Context, principalID int64, legID int64) ([]models.Match, error)
	AcceptMatch(ctx context.Context, principalID int64, matchID int64) (*services.MatchAcceptance, error)
	RejectMatch(ctx context.Context, principalID int64, matchID int64) (*models.Match, error)
}

type MatchHandler struct {
	service matchApplicationService
}

func NewMatchHandler(service matchApplicationService) *MatchHandler {
	return &MatchHandler{service: service}
}

type createMatchRequest struct {
	SenderLegID   int64 `json:"sender_leg_id"`
	ReceiverID    int64 `json:"receiver_id"`
	ReceiverLegID int64 `json:"receiver_leg_id"`
}

func (h *MatchHandler) GetPotentialMatches(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	legID, err := parseIDParam(c, "legId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leg id"})
	}

	matches, err := h.service.FindPotentialMatches(c.Context(), userID, legID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) GetJourneyMatches(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	journeyID, err := parseIDParam(c, "journeyId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid journey id"})
	}

	results, err := h.service.FindMatchesByJourney(c.Context(), userID, journeyID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(results)
}

func (h *MatchHandler) CreateMatch(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SenderLegID <= 0 || req.ReceiverID <= 0 || req.ReceiverLegID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "sender_leg_id, receiver_id and receiver_leg_id are required"})
	}

	match, err := h.service.CreateMatch(c.Context(), userID, req.SenderLegID, req.ReceiverID, req.ReceiverLegID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) DismissMatch(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SenderLegID <= 0 || req.ReceiverID <= 0 || req.ReceiverLegID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "sender_leg_id, receiver_id and receiver_leg_id are required"})
	}

	match, err := h.service.DismissMatch(c.Context(), userID, req.SenderLegID, req.ReceiverID, req.ReceiverLegID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) ListPendingMatches(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	legID, err := parseIDParam(c, "legId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leg id"})
	}

	matches, err := h.service.ListPendingMatches(c.Context(), userID, legID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) AcceptMatch(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	acceptance, err := h.service.AcceptMatch(c.Context(), userID, matchID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(acceptance)
}

func (h *MatchHandler) RejectMatch(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	match, err := h.service.RejectMatch(c.Context(), userID, matchID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSelfMatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot match with yourself"})
	case errors.Is(err, services.ErrDuplicateMatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Match already exists for this pair and flight"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrFlightMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Legs are not on the same flight"})
	case errors.Is(err, services.ErrNotPending):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Match is no longer pending"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process match request"})
	}
}
