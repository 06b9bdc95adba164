package model

import "time"

// Message belongs to a two-party conversation keyed by the unordered
// (sender, recipient) pair. Ordering is monotonic per conversation.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type SendMessageRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// ChatPartner is a sidebar entry: the other party's name and how many
// of their messages the viewer has not read yet.
type ChatPartner struct {
	Name   string `json:"name"`
	Unread int    `json:"unread"`
}

type UnreadCount struct {
	Count int `json:"count"`
}
