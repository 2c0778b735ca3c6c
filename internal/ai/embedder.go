package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Embed converts text into a fixed-dimension embedding vector.
// Provider errors, empty responses, and dimension mismatches all surface as
// UpstreamError: a vector of the wrong length would make every similarity
// score downstream meaningless, so it is rejected here rather than assumed.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, upstream("embeddings", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, upstream("embeddings", fmt.Errorf("empty embedding response"))
	}

	vec := resp.Data[0].Embedding
	if len(vec) != c.cfg.EmbeddingDim {
		return nil, upstream("embeddings",
			fmt.Errorf("expected %d-dimensional vector, got %d", c.cfg.EmbeddingDim, len(vec)))
	}
	return vec, nil
}
