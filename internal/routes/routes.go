package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puddu045/Layo-backend/internal/config"
	"github.com/puddu045/Layo-backend/internal/handlers"
	"github.com/puddu045/Layo-backend/internal/middleware"
	"github.com/puddu045/Layo-backend/internal/repository"
	"github.com/puddu045/Layo-backend/internal/services"
	matchws "github.com/puddu045/Layo-backend/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	chatRepo := repository.NewChatRepository(db)

	hub := matchws.NewHub()
	go hub.Run()

	journeyService := services.NewJourneyService(db, journeyRepo)
	matchService := services.NewMatchService(
		db,
		matchRepo,
		journeyRepo,
		chatRepo,
		hub,
		cfg.MatchToleranceMinutes,
		cfg.MinLayoverOverlapMinutes,
	)
	chatService := services.NewChatService(chatRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	journeyHandler := handlers.NewJourneyHandler(journeyService)
	matchHandler := handlers.NewMatchHandler(matchService)
	chatHandler := handlers.NewChatHandler(chatService, hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	journeys := authProtected.Group("/journeys")
	journeys.Post("", journeyHandler.CreateJourney)
	journeys.Get("", journeyHandler.ListJourneys)
	journeys.Get("/:id", journeyHandler.GetJourney)

	matches := authProtected.Group("/matches")
	matches.Get("/potential/:legId", matchHandler.GetPotentialMatches)
	matches.Get("/journey/:journeyId", matchHandler.GetJourneyMatches)
	matches.Get("/pending/:legId", matchHandler.ListPendingMatches)
	matches.Post("", matchHandler.CreateMatch)
	matches.Post("/dismiss", matchHandler.DismissMatch)
	matches.Post("/:id/accept", matchHandler.AcceptMatch)
	matches.Post("/:id/reject", matchHandler.RejectMatch)

	chats := authProtected.Group("/chats")
	chats.Get("", chatHandler.ListChats)
	chats.Get("/leg/:legId", chatHandler.ListChatsByLeg)
	chats.Post("/:id/read", chatHandler.MarkChatRead)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	return registerDocsRoutes(app, cfg)
}
