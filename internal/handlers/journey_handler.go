package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/services"
)

type journeyApplicationService interface {
	CreateJourney(ctx context.Context, userID int64, input services.CreateJourneyInput) (*models.Journey, error)
	ListJourneys(ctx context.Context, userID int64) ([]models.Journey, error)
	GetJourney(ctx context.Context, principalID int64, journeyID int64) (*models.Journey, error)
}

type JourneyHandler struct {
	service journeyApplicationService
}

func NewJourneyHandler(service journeyApplicationService) *JourneyHandler {
	return &JourneyHandler{service: service}
}

type createJourneyLegRequest struct {
	Sequence         int    `json:"sequence"`
	FlightNumber     string `json:"flight_number"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
}

type createJourneyRequest struct {
	JourneyType string                    `json:"journey_type"`
	Legs        []createJourneyLegRequest `json:"legs"`
}

func (h *JourneyHandler) CreateJourney(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createJourneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	journeyType := strings.ToUpper(strings.TrimSpace(req.JourneyType))
	if journeyType != "ONE_WAY" && journeyType != "ROUND_TRIP" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "journey_type must be ONE_WAY or ROUND_TRIP"})
	}

	legs := make([]services.JourneyLegInput, 0, len(req.Legs))
	for _, leg := range req.Legs {
		if strings.TrimSpace(leg.FlightNumber) == "" ||
			strings.TrimSpace(leg.DepartureAirport) == "" ||
			strings.TrimSpace(leg.ArrivalAirport) == "" {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Each leg needs flight_number, departure_airport and arrival_airport"})
		}
		departureTime, err := time.Parse(time.RFC3339, strings.TrimSpace(leg.DepartureTime))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "departure_time must be a valid RFC3339 timestamp"})
		}
		arrivalTime, err := time.Parse(time.RFC3339, strings.TrimSpace(leg.ArrivalTime))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "arrival_time must be a valid RFC3339 timestamp"})
		}
		legs = append(legs, services.JourneyLegInput{
			Sequence:         leg.Sequence,
			FlightNumber:     strings.ToUpper(strings.TrimSpace(leg.FlightNumber)),
			DepartureAirport: strings.ToUpper(strings.TrimSpace(leg.DepartureAirport)),
			ArrivalAirport:   strings.ToUpper(strings.TrimSpace(leg.ArrivalAirport)),
			DepartureTime:    departureTime.UTC(),
			ArrivalTime:      arrivalTime.UTC(),
		})
	}

	journey, err := h.service.CreateJourney(c.Context(), userID, services.CreateJourneyInput{
		JourneyType: journeyType,
		Legs:        legs,
	})
	if err != nil {
		return mapJourneyError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"journey": journey})
}

func (h *JourneyHandler) ListJourneys(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	journeys, err := h.service.ListJourneys(c.Context(), userID)
	if err != nil {
		return mapJourneyError(c, err)
	}

	return c.JSON(fiber.Map{"journeys": journeys})
}

func (h *JourneyHandler) GetJourney(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	journeyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid journey id"})
	}

	journey, err := h.service.GetJourney(c.Context(), userID, journeyID)
	if err != nil {
		return mapJourneyError(c, err)
	}

	return c.JSON(fiber.Map{"journey": journey})
}

func mapJourneyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoLegs),
		errors.Is(err, services.ErrDuplicateLegSeq),
		errors.Is(err, services.ErrInvalidLegTiming):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Journey not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process journey request"})
	}
}
