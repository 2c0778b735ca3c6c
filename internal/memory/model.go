package memory

import (
	"time"

	"github.com/google/uuid"
)

// ConversationEntry is a single message in the short-term conversation history.
type ConversationEntry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserMemory is a row in the user_memories table: one captured exchange with
// its embedding for future semantic recall. The chat pipeline only writes
// these; recall belongs to the memory collaborator, not this core.
type UserMemory struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
