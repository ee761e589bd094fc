// Package history provides persisted conversation history behind a small
// Store contract: append a message to a logical thread, read a thread back in
// order, clear it. Concrete backends (in-memory, file, SQLite) are pluggable;
// the runtime core never depends on a specific one.
package history

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Message is one persisted conversation entry. IDs are ULIDs, so
// lexicographic order is creation order — backends exploit that for ordering.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Agent     string    `json:"agent,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a Message with a fresh ULID and UTC timestamp.
func NewMessage(role, agentName, content string) Message {
	return Message{
		ID:        ulid.Make().String(),
		Role:      role,
		Agent:     agentName,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the conversation-history contract. Implementations must preserve
// append order within a thread.
type Store interface {
	// Append adds a message to the named thread, creating it if needed.
	Append(ctx context.Context, threadID string, msg Message) error

	// Messages returns the thread's messages in append order. An unknown
	// thread yields an empty slice, not an error.
	Messages(ctx context.Context, threadID string) ([]Message, error)

	// Clear removes the thread and all its messages.
	Clear(ctx context.Context, threadID string) error
}
