package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/puddu045/Layo-backend/internal/config"
)

type endpointDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Auth        bool   `json:"auth"`
	Description string `json:"description"`
}

var apiEndpoints = []endpointDoc{
	{Method: "POST", Path: "/api/auth/register", Auth: false, Description: "Create an account and receive a token"},
	{Method: "POST", Path: "/api/auth/login", Auth: false, Description: "Exchange credentials for a token"},
	{Method: "GET", Path: "/api/auth/me", Auth: true, Description: "Current account details"},
	{Method: "POST", Path: "/api/v1/journeys", Auth: true, Description: "Create a journey with its legs; layover minutes are derived"},
	{Method: "GET", Path: "/api/v1/journeys", Auth: true, Description: "List the caller's journeys"},
	{Method: "GET", Path: "/api/v1/journeys/:id", Auth: true, Description: "Fetch one of the caller's journeys"},
	{Method: "GET", Path: "/api/v1/matches/potential/:legId", Auth: true, Description: "Travelers on the same flight or overlapping layover, one per user"},
	{Method: "GET", Path: "/api/v1/matches/journey/:journeyId", Auth: true, Description: "Discovery across all legs of a journey, grouped per leg"},
	{Method: "GET", Path: "/api/v1/matches/pending/:legId", Auth: true, Description: "Pending requests addressed to the caller on this leg"},
	{Method: "POST", Path: "/api/v1/matches", Auth: true, Description: "Send a match request"},
	{Method: "POST", Path: "/api/v1/matches/dismiss", Auth: true, Description: "Suppress a suggestion without sending a request"},
	{Method: "POST", Path: "/api/v1/matches/:id/accept", Auth: true, Description: "Accept a pending request; creates the chat"},
	{Method: "POST", Path: "/api/v1/matches/:id/reject", Auth: true, Description: "Reject a pending request"},
	{Method: "GET", Path: "/api/v1/chats", Auth: true, Description: "List the caller's chats with read cursors"},
	{Method: "GET", Path: "/api/v1/chats/leg/:legId", Auth: true, Description: "Chats anchored at one of the caller's legs"},
	{Method: "POST", Path: "/api/v1/chats/:id/read", Auth: true, Description: "Advance the caller's read cursor"},
	{Method: "GET", Path: "/api/v1/ws", Auth: true, Description: "WebSocket stream of match lifecycle events"},
}

// registerDocsRoutes exposes a machine-readable endpoint listing, only in
// development and only when explicitly enabled.
func registerDocsRoutes(app *fiber.App, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":      "Layo API",
			"endpoints": apiEndpoints,
		})
	})

	return nil
}
