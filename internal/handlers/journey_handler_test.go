package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/services"
)

type stubJourneyService struct {
	createResult *models.Journey
	createErr    error
	listResult   []models.Journey
	listErr      error
	getResult    *models.Journey
	getErr       error

	lastUserID    int64
	lastJourneyID int64
	lastInput     services.CreateJourneyInput
}

func (s *stubJourneyService) CreateJourney(_ context.Context, userID int64, input services.CreateJourneyInput) (*models.Journey, error) {
	s.lastUserID = userID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubJourneyService) ListJourneys(_ context.Context, userID int64) ([]models.Journey, error) {
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func (s *stubJourneyService) GetJourney(_ context.Context, principalID, journeyID int64) (*models.Journey, error) {
	s.lastUserID = principalID
	s.lastJourneyID = journeyID
	return s.getResult, s.getErr
}

func newJourneyTestApp(service *stubJourneyService) *fiber.App {
	handler := &JourneyHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/journeys", handler.CreateJourney)
	app.Get("/api/v1/journeys", handler.ListJourneys)
	app.Get("/api/v1/journeys/:id", handler.GetJourney)
	return app
}

func TestCreateJourneyNormalizesAndForwardsLegs(t *testing.T) {
	service := &stubJourneyService{
		createResult: &models.Journey{ID: 9, UserID: 42, JourneyType: "ONE_WAY"},
	}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journeys", strings.NewReader(`{
		"journey_type": "one_way",
		"legs": [{
			"sequence": 1,
			"flight_number": " ua123 ",
			"departure_airport": "sfo",
			"arrival_airport": "ord",
			"departure_time": "2026-06-01T08:00:00Z",
			"arrival_time": "2026-06-01T14:00:00Z"
		}]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInput.JourneyType != "ONE_WAY" {
		t.Fatalf("expected normalized journey type, got %q", service.lastInput.JourneyType)
	}
	if len(service.lastInput.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(service.lastInput.Legs))
	}
	leg := service.lastInput.Legs[0]
	if leg.FlightNumber != "UA123" || leg.DepartureAirport != "SFO" || leg.ArrivalAirport != "ORD" {
		t.Fatalf("expected uppercased trimmed codes, got %+v", leg)
	}
	if want := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC); !leg.DepartureTime.Equal(want) {
		t.Fatalf("expected departure %v, got %v", want, leg.DepartureTime)
	}
}

func TestCreateJourneyRejectsUnknownType(t *testing.T) {
	service := &stubJourneyService{}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journeys", strings.NewReader(`{
		"journey_type": "MULTI_CITY",
		"legs": []
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateJourneyRejectsBadTimestamp(t *testing.T) {
	service := &stubJourneyService{}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journeys", strings.NewReader(`{
		"journey_type": "ONE_WAY",
		"legs": [{
			"sequence": 1,
			"flight_number": "UA123",
			"departure_airport": "SFO",
			"arrival_airport": "ORD",
			"departure_time": "next tuesday",
			"arrival_time": "2026-06-01T14:00:00Z"
		}]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateJourneyMapsTimingError(t *testing.T) {
	service := &stubJourneyService{createErr: services.ErrInvalidLegTiming}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journeys", strings.NewReader(`{
		"journey_type": "ONE_WAY",
		"legs": [{
			"sequence": 1,
			"flight_number": "UA123",
			"departure_airport": "SFO",
			"arrival_airport": "ORD",
			"departure_time": "2026-06-01T08:00:00Z",
			"arrival_time": "2026-06-01T14:00:00Z"
		}]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetJourneyReturnsNotFound(t *testing.T) {
	service := &stubJourneyService{getErr: pgx.ErrNoRows}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetJourneyForeignOwnerReturnsForbidden(t *testing.T) {
	service := &stubJourneyService{getErr: services.ErrForbidden}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys/5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestListJourneysReturnsOwnedJourneys(t *testing.T) {
	service := &stubJourneyService{
		listResult: []models.Journey{{ID: 1, UserID: 42}},
	}
	app := newJourneyTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Journeys []models.Journey `json:"journeys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Journeys) != 1 || body.Journeys[0].ID != 1 {
		t.Fatalf("unexpected body: %+v", body.Journeys)
	}
}
