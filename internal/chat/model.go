package chat

import "time"

// Message is one append-only entry in a request's thread. Messages are never
// edited or deleted.
type Message struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadMessage is a message as rendered inside a conversation, from the
// viewer's perspective. Synthetic messages are derived from the request note
// when a thread has no stored messages; they carry an empty ID and are never
// persisted.
type ThreadMessage struct {
	ID        string `json:"id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Sent      bool   `json:"sent"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Thread is the conversation view of one request.
type Thread struct {
	RequestID       string          `json:"request_id"`
	Status          string          `json:"status"`
	CounterpartID   string          `json:"counterpart_id"`
	CounterpartName string          `json:"counterpart_name"`
	AvatarInitial   string          `json:"avatar_initial"`
	LastMessage     string          `json:"last_message"`
	LastMessageTime string          `json:"last_message_time"`
	Messages        []ThreadMessage `json:"messages"`
}
