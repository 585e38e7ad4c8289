package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/services"
	matchws "github.com/puddu045/Layo-backend/internal/websocket"
	"github.com/puddu045/Layo-backend/pkg/utils"
)

type chatApplicationService interface {
	ListChats(ctx context.Context, userID int64) ([]models.ChatSummary, error)
	ListChatsByLeg(ctx context.Context, userID int64, legID int64) ([]models.ChatSummary, error)
	MarkChatRead(ctx context.Context, userID int64, chatID int64) (*models.ChatReadState, error)
}

type ChatHandler struct {
	service   chatApplicationService
	hub       *matchws.Hub
	jwtSecret string
}

func NewChatHandler(service chatApplicationService, hub *matchws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chats, err := h.service.ListChats(c.Context(), userID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) ListChatsByLeg(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	legID, err := parseIDParam(c, "legId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leg id"})
	}

	chats, err := h.service.ListChatsByLeg(c.Context(), userID, legID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) MarkChatRead(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chatID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid chat id"})
	}

	state, err := h.service.MarkChatRead(c.Context(), userID, chatID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"read_state": state})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals("user_id").(string)
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		_ = conn.Close()
		return
	}

	client := matchws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
