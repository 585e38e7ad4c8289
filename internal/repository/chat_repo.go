package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/puddu045/Layo-backend/internal/models"
)

type ChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, matchID int64) (*models.Chat, error) {
	query := `
		INSERT INTO chats (match_id)
		VALUES ($1)
		RETURNING id, match_id, created_at
	`
	var chat models.Chat
	if err := r.db.QueryRow(ctx, query, matchID).Scan(&chat.ID, &chat.MatchID, &chat.CreatedAt); err != nil {
		return nil, err
	}
	return &chat, nil
}

// SeedReadState creates the participant's read cursor at epoch so the first
// unread computation treats all history as unread.
func (r *ChatRepository) SeedReadState(ctx context.Context, chatID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_read_states (chat_id, user_id, last_read_at)
		VALUES ($1, $2, to_timestamp(0))
	`, chatID, userID)
	return err
}

func (r *ChatRepository) UpsertReadState(
	ctx context.Context,
	chatID int64,
	userID int64,
	readAt time.Time,
) (*models.ChatReadState, error) {
	query := `
		INSERT INTO chat_read_states (chat_id, user_id, last_read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, user_id)
		DO UPDATE SET last_read_at = EXCLUDED.last_read_at
		RETURNING chat_id, user_id, last_read_at
	`
	var state models.ChatReadState
	if err := r.db.QueryRow(ctx, query, chatID, userID, readAt).Scan(&state.ChatID, &state.UserID, &state.LastReadAt); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetByIDForParticipant loads a chat only if the user is on either side of
// its originating match.
func (r *ChatRepository) GetByIDForParticipant(
	ctx context.Context,
	chatID int64,
	participantID int64,
) (*models.Chat, error) {
	query := `
		SELECT c.id, c.match_id, c.created_at
		FROM chats c
		JOIN matches m ON m.id = c.match_id
		WHERE c.id = $1 AND (m.sender_id = $2 OR m.receiver_id = $2)
	`
	var chat models.Chat
	if err := r.db.QueryRow(ctx, query, chatID, participantID).Scan(&chat.ID, &chat.MatchID, &chat.CreatedAt); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) ListForUser(ctx context.Context, userID int64) ([]models.ChatSummary, error) {
	query := chatSummarySelect + `
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatSummaries(rows)
}

func (r *ChatRepository) ListForUserByLeg(
	ctx context.Context,
	userID int64,
	legID int64,
) ([]models.ChatSummary, error) {
	query := chatSummarySelect + `
		WHERE (m.sender_id = $1 AND m.sender_leg_id = $2)
		   OR (m.receiver_id = $1 AND m.receiver_leg_id = $2)
		ORDER BY c.created_at DESC, c.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID, legID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatSummaries(rows)
}

const chatSummarySelect = `
	SELECT c.id, c.match_id, c.created_at,
	       s.id, s.first_name, s.last_name,
	       rcv.id, rcv.first_name, rcv.last_name,
	       COALESCE(rs.last_read_at, to_timestamp(0))
	FROM chats c
	JOIN matches m ON m.id = c.match_id
	JOIN users s ON s.id = m.sender_id
	JOIN users rcv ON rcv.id = m.receiver_id
	LEFT JOIN chat_read_states rs ON rs.chat_id = c.id AND rs.user_id = $1
`

func scanChatSummaries(rows pgx.Rows) ([]models.ChatSummary, error) {
	summaries := make([]models.ChatSummary, 0)
	for rows.Next() {
		var summary models.ChatSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.MatchID,
			&summary.CreatedAt,
			&summary.Sender.ID,
			&summary.Sender.FirstName,
			&summary.Sender.LastName,
			&summary.Receiver.ID,
			&summary.Receiver.FirstName,
			&summary.Receiver.LastName,
			&summary.LastReadAt,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
