package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmachat/pharmachat/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		ChatModel:      "gpt-4o-mini",
		RewriteModel:   "gpt-4o-mini",
		EmbeddingModel: "text-embedding-ada-002",
		EmbeddingDim:   4,
	})
}

func embeddingResponse(vec []float32) []byte {
	body, _ := json.Marshal(map[string]any{
		"data": []map[string]any{{"embedding": vec, "index": 0, "object": "embedding"}},
	})
	return body
}

func TestEmbed(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(embeddingResponse([]float32{0.1, 0.2, 0.3, 0.4}))
	}))

	vec, err := c.Embed(context.Background(), "what is a formulary?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
}

func TestEmbed_WrongDimension(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(embeddingResponse([]float32{0.1, 0.2}))
	}))

	_, err := c.Embed(context.Background(), "query")
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "expected 4-dimensional vector")
}

func TestEmbed_EmptyResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))

	_, err := c.Embed(context.Background(), "query")
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}

func TestEmbed_ProviderError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))

	_, err := c.Embed(context.Background(), "query")
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}

func TestComplete(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"rewritten query"}}]}`)
	}))

	out, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "rewrite"},
		{Role: RoleUser, Content: "what about it?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "rewritten query", out)
}

func TestComplete_EmptyChoices(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}

func TestStreamChat(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"A ", "formulary ", "is a list."} {
			chunk, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": delta}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))

	var got []string
	full, err := c.StreamChat(context.Background(), []Message{{Role: RoleUser, Content: "q"}}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A ", "formulary ", "is a list."}, got)
	assert.Equal(t, "A formulary is a list.", full)
}

func TestStreamChat_SinkError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"y\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))

	sinkErr := fmt.Errorf("client went away")
	_, err := c.StreamChat(context.Background(), []Message{{Role: RoleUser, Content: "q"}}, func(string) error {
		return sinkErr
	})
	require.ErrorIs(t, err, sinkErr)
}
