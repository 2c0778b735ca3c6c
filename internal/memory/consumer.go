package memory

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/pharmachat/pharmachat/internal/metrics"
	inats "github.com/pharmachat/pharmachat/internal/nats"
)

// Consumer drains the capture queue and persists exchanges. Failed captures
// are Nak'ed for redelivery (at-least-once); failures stay invisible to the
// chat caller, whose response has long since streamed.
type Consumer struct {
	svc         *Service
	consumerMgr *inats.ConsumerManager
}

// NewConsumer creates a capture queue Consumer.
func NewConsumer(svc *Service, consumerMgr *inats.ConsumerManager) *Consumer {
	return &Consumer{
		svc:         svc,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, inats.StreamMemory, "memory-capture", inats.SubjectMemoryCapture)
	if err != nil {
		return err
	}

	slog.Info("memory capture consumer started", "consumer", "memory-capture")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("memory consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event inats.CaptureEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("memory consumer: unmarshaling event", "error", err)
		_ = msg.Nak()
		return
	}

	turns := make([]ConversationEntry, len(event.Turns))
	for i, t := range event.Turns {
		turns[i] = ConversationEntry{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp}
	}

	if err := c.svc.CaptureExchange(ctx, event.UserID, turns); err != nil {
		metrics.MemoryCaptureFailuresTotal.Inc()
		slog.Error("memory consumer: capturing exchange", "error", err, "user_id", event.UserID, "event_id", event.ID)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()
}
