package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pharmachat/pharmachat/internal/metrics"
	inats "github.com/pharmachat/pharmachat/internal/nats"
)

const captureTimeout = 30 * time.Second

// QueueCapturer hands completed exchanges to the JetStream capture queue.
// Delivery to the queue is at-least-once; the consumer does the actual
// persistence with retry. Publish failures are logged and counted, never
// surfaced: the user-visible contract is "answer delivered", not "memory
// persisted".
type QueueCapturer struct {
	publisher *inats.Publisher
}

// NewQueueCapturer creates a queue-backed capturer.
func NewQueueCapturer(publisher *inats.Publisher) *QueueCapturer {
	return &QueueCapturer{publisher: publisher}
}

func (c *QueueCapturer) Capture(ctx context.Context, userID string, turns []ConversationEntry) {
	metrics.MemoryCapturesTotal.Inc()

	// Detach from request cancellation: a client hanging up mid-stream must
	// not abort capture of what was already exchanged.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), captureTimeout)
	defer cancel()

	event := inats.CaptureEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Turns:      toCaptureTurns(turns),
		ExchangeAt: time.Now().UTC(),
	}
	if err := c.publisher.PublishMemoryCapture(ctx, event); err != nil {
		metrics.MemoryCaptureFailuresTotal.Inc()
		slog.Error("memory capture: publishing event", "error", err, "user_id", userID)
	}
}

// DirectCapturer persists exchanges on a detached goroutine, for deployments
// running without NATS. Same contract as QueueCapturer minus the queue's
// at-least-once redelivery.
type DirectCapturer struct {
	svc *Service
}

// NewDirectCapturer creates an in-process capturer.
func NewDirectCapturer(svc *Service) *DirectCapturer {
	return &DirectCapturer{svc: svc}
}

func (c *DirectCapturer) Capture(ctx context.Context, userID string, turns []ConversationEntry) {
	metrics.MemoryCapturesTotal.Inc()

	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, captureTimeout)
		defer cancel()
		if err := c.svc.CaptureExchange(ctx, userID, turns); err != nil {
			metrics.MemoryCaptureFailuresTotal.Inc()
			slog.Error("memory capture failed", "error", err, "user_id", userID)
		}
	}()
}

func toCaptureTurns(turns []ConversationEntry) []inats.CaptureTurn {
	out := make([]inats.CaptureTurn, len(turns))
	for i, t := range turns {
		out[i] = inats.CaptureTurn{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp}
	}
	return out
}
