package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmachat/pharmachat/internal/ai"
	"github.com/pharmachat/pharmachat/internal/config"
	"github.com/pharmachat/pharmachat/internal/corpus"
	"github.com/pharmachat/pharmachat/internal/memory"
	"github.com/pharmachat/pharmachat/internal/metrics"
)

// roleplayBootstrap is synthesized as the opening user turn when a roleplay
// session starts with no conversation history.
const roleplayBootstrap = "Start a practice scenario for pharmacy consultation. Act as an interviewer and give me a relevant scenario to respond to."

// Embedder turns text into a fixed-dimension search vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Streamer runs one streaming generation over the assembled messages,
// forwarding deltas to onDelta and returning the full text.
type Streamer interface {
	StreamChat(ctx context.Context, msgs []ai.Message, onDelta func(delta string) error) (string, error)
}

// Capturer hands a completed exchange to the memory collaborator.
// Fire-and-forget: implementations own their failure handling and must not
// delay or fail the response path.
type Capturer interface {
	Capture(ctx context.Context, userID string, turns []memory.ConversationEntry)
}

// Service sequences one chat turn: greeting check, optional query rewrite,
// embedding, similarity search, persona prompt assembly, streamed
// generation, and asynchronous memory capture. One Service instance serves
// all requests concurrently; it holds no per-request state.
type Service struct {
	embedder  Embedder
	corpus    corpus.Repository
	streamer  Streamer
	rewriter  *QueryRewriter // nil disables rewriting
	greetings *GreetingDetector
	capturer  Capturer
	topK      int
	threshold float64
}

// NewService wires the pipeline. rewriter and capturer may be nil.
func NewService(embedder Embedder, repo corpus.Repository, streamer Streamer, rewriter *QueryRewriter, capturer Capturer, cfg config.RetrievalConfig) *Service {
	return &Service{
		embedder:  embedder,
		corpus:    repo,
		streamer:  streamer,
		rewriter:  rewriter,
		greetings: NewGreetingDetector(),
		capturer:  capturer,
		topK:      cfg.TopK,
		threshold: cfg.Threshold,
	}
}

// Respond executes the pipeline for one validated request, writing response
// text to sink as it becomes available. Any error returned before the first
// sink call means nothing was written and the caller may still send an error
// response. Memory capture never blocks delivery and its failures never
// surface here.
func (s *Service) Respond(ctx context.Context, req *Request, sink func(delta string) error) error {
	persona := ParsePersona(req.Persona)

	messages := req.Messages
	if len(messages) == 0 {
		if persona != PersonaRoleplay {
			return ErrEmptyConversation
		}
		// Roleplay bootstrap: open a scenario without a prior user message.
		messages = []Message{{Role: RoleUser, Content: roleplayBootstrap}}
	}

	current := messages[len(messages)-1]
	history := messages[:len(messages)-1]

	if s.greetings.Match(current.Content) {
		metrics.ChatTurnsTotal.WithLabelValues(string(persona), "greeting").Inc()
		answer := s.greetings.Pick()
		// The canned answer is the synthetic assistant turn: it goes down
		// the same stream and into the same capture path as a generated one.
		if err := sink(answer); err != nil {
			return err
		}
		s.capture(ctx, req.UserID, current.Content, answer)
		return nil
	}

	searchQuery := current.Content
	if s.rewriter != nil {
		searchQuery = s.rewriter.Rewrite(ctx, history, current.Content)
	}

	vec, err := s.embedder.Embed(ctx, searchQuery)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	passages, err := s.corpus.Search(ctx, vec, s.topK, s.threshold)
	if err != nil {
		return fmt.Errorf("searching corpus: %w", err)
	}
	metrics.RetrievedPassages.Observe(float64(len(passages)))

	system := persona.SystemPrompt(corpus.ContextFromPassages(passages))

	// Prompt shape is fixed: one system message first, then the prior
	// history in original order, then the current user message last.
	msgs := make([]ai.Message, 0, len(messages)+1)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: system})
	for _, m := range messages {
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}

	answer, err := s.streamer.StreamChat(ctx, msgs, sink)
	if err != nil {
		return err
	}

	metrics.ChatTurnsTotal.WithLabelValues(string(persona), "retrieval").Inc()
	s.capture(ctx, req.UserID, current.Content, answer)
	return nil
}

// capture hands the finished exchange off. Only the current user turn and
// the assistant answer are captured, never the system prompt.
func (s *Service) capture(ctx context.Context, userID, question, answer string) {
	if s.capturer == nil {
		return
	}
	now := time.Now().UTC()
	s.capturer.Capture(ctx, userID, []memory.ConversationEntry{
		{Role: RoleUser, Content: question, Timestamp: now},
		{Role: RoleAssistant, Content: answer, Timestamp: now},
	})
}
