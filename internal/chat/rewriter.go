package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pharmachat/pharmachat/internal/ai"
)

// rewriteWindow is how many prior messages the rewriter sees for resolving
// references like "what about the second one?".
const rewriteWindow = 4

const rewriteInstructions = `You turn the user's latest question into a self-contained search query. Use the preceding conversation only to resolve references such as pronouns or "the previous option". Preserve the question's intent exactly; never add facts that are not in the conversation. Reply with the rewritten query text and nothing else.`

// Completer runs one constrained completion. Satisfied by *ai.Client.
type Completer interface {
	Complete(ctx context.Context, msgs []ai.Message) (string, error)
}

// QueryRewriter reformulates follow-up questions into standalone,
// search-optimized queries. It fails open: on any provider failure the
// original query is returned unchanged, never an error; a degraded search
// beats an aborted request.
type QueryRewriter struct {
	completer Completer
}

// NewQueryRewriter creates a rewriter over the given completer.
func NewQueryRewriter(completer Completer) *QueryRewriter {
	return &QueryRewriter{completer: completer}
}

// Rewrite returns the search query to embed. The rewritten text replaces
// the original only for embedding and search; the original stays the user's
// stored turn.
func (r *QueryRewriter) Rewrite(ctx context.Context, history []Message, query string) string {
	if len(history) == 0 {
		return query
	}

	window := history
	if len(window) > rewriteWindow {
		window = window[len(window)-rewriteWindow:]
	}

	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, m := range window {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&b, "\nLatest question: %s", query)

	out, err := r.completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: rewriteInstructions},
		{Role: ai.RoleUser, Content: b.String()},
	})
	if err != nil {
		slog.Warn("query rewrite failed, using original query", "error", err)
		return query
	}

	rewritten := strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`))
	if rewritten == "" {
		return query
	}
	return rewritten
}
