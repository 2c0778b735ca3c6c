package nats

import "time"

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamMemory = "PHARMACHAT_MEMORY"
)

// Subject constants.
const (
	SubjectMemoryCapture = "pharmachat.memory.capture"
)

// CaptureTurn is one conversation turn inside a CaptureEvent.
type CaptureTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CaptureEvent is published after a chat exchange completes so the memory
// consumer can persist it. Delivery is at-least-once; the consumer must
// tolerate duplicates.
type CaptureEvent struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Turns      []CaptureTurn `json:"turns"`
	ExchangeAt time.Time     `json:"exchange_at"`
}
