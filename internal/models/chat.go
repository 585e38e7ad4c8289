package models

import "time"

type Chat struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReadState records the timestamp through which a participant has read
// the chat. Seeded at epoch on chat creation so nothing counts as read.
type ChatReadState struct {
	ChatID     int64     `json:"chat_id"`
	UserID     int64     `json:"user_id"`
	LastReadAt time.Time `json:"last_read_at"`
}

type ChatSummary struct {
	Chat
	Sender     UserSummary `json:"sender"`
	Receiver   UserSummary `json:"receiver"`
	LastReadAt time.Time   `json:"last_read_at"`
}
