package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
	"github.com/puddu045/Layo-backend/internal/repository"
)

// ChatService exposes the chats that the accept transition bootstrapped.
// Message storage and delivery live outside this service.
type ChatService struct {
	chatRepo *repository.ChatRepository
}

func NewChatService(chatRepo *repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

func (s *ChatService) ListChats(ctx context.Context, userID int64) ([]models.ChatSummary, error) {
	return s.chatRepo.ListForUser(ctx, userID)
}

func (s *ChatService) ListChatsByLeg(
	ctx context.Context,
	userID int64,
	legID int64,
) ([]models.ChatSummary, error) {
	return s.chatRepo.ListForUserByLeg(ctx, userID, legID)
}

// MarkChatRead advances the caller's read cursor to now. Only participants
// of the originating match may touch the cursor.
func (s *ChatService) MarkChatRead(
	ctx context.Context,
	userID int64,
	chatID int64,
) (*models.ChatReadState, error) {
	if _, err := s.chatRepo.GetByIDForParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return s.chatRepo.UpsertReadState(ctx, chatID, userID, time.Now().UTC())
}
