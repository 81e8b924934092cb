package models

import "time"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is a single entry in a conversation transcript. Messages are
// append-only; they are never mutated after creation.
type Message struct {
	Role      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the backend chat endpoint. A nil
// ThreadID starts a fresh conversation.
type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID *int64 `json:"thread_id"`
}

// ChatResponse is the backend's reply. The returned thread id is
// authoritative and must be adopted for the next send.
type ChatResponse struct {
	ThreadID int64  `json:"thread_id"`
	Response string `json:"response"`
}

// CreateThreadRequest opens a conversation on the thread-based API.
type CreateThreadRequest struct {
	Content string `json:"content"`
}

type CreateThreadResponse struct {
	ID int64 `json:"id"`
}

// ThreadMessage is an entry returned by the thread messages listing.
type ThreadMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ThreadMessagesResponse struct {
	Messages []ThreadMessage `json:"messages"`
}
