package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pharmachat/pharmachat/internal/config"
)

// Embedder produces the vector stored alongside a captured exchange.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service persists captured conversation exchanges: recent turns go to the
// Redis short-term list, and the rendered exchange is embedded and written
// to the long-term pgvector store. Captured turns are user/assistant only;
// the system prompt is never persisted.
type Service struct {
	store     Store
	shortTerm *ShortTermStore
	embedder  Embedder
	cfg       config.MemoryConfig
}

// NewService creates a memory capture service.
func NewService(store Store, shortTerm *ShortTermStore, embedder Embedder, cfg config.MemoryConfig) *Service {
	return &Service{
		store:     store,
		shortTerm: shortTerm,
		embedder:  embedder,
		cfg:       cfg,
	}
}

// CaptureExchange persists one completed exchange for the user. An embedding
// failure degrades to storing the memory without a vector rather than losing
// the exchange.
func (s *Service) CaptureExchange(ctx context.Context, userID string, turns []ConversationEntry) error {
	if userID == "" || len(turns) == 0 {
		return fmt.Errorf("capture requires a user id and at least one turn")
	}

	if s.shortTerm != nil {
		for _, turn := range turns {
			if err := s.shortTerm.AppendMessage(ctx, userID, turn, s.cfg.MaxShortTermMsgs, s.cfg.ShortTermTTL); err != nil {
				return fmt.Errorf("appending %s turn: %w", turn.Role, err)
			}
		}
	}

	content := renderExchange(turns)

	var embedding []float32
	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, content)
		if err != nil {
			slog.Warn("memory: embedding capture failed, storing without vector", "error", err, "user_id", userID)
		} else {
			embedding = vec
		}
	}

	mem := &UserMemory{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		Embedding: embedding,
	}
	if err := s.store.Create(ctx, mem); err != nil {
		return fmt.Errorf("storing long-term memory: %w", err)
	}
	return nil
}

// RecentConversation returns the user's short-term history, oldest first.
func (s *Service) RecentConversation(ctx context.Context, userID string, limit int) ([]ConversationEntry, error) {
	if s.shortTerm == nil {
		return nil, nil
	}
	return s.shortTerm.GetRecentMessages(ctx, userID, limit)
}

func renderExchange(turns []ConversationEntry) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch turn.Role {
		case "assistant":
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(turn.Content)
	}
	return b.String()
}
