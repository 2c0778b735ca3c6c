package ai

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/pharmachat/pharmachat/internal/config"
)

// Client wraps the OpenAI API for every provider call the pipeline makes:
// embeddings, streamed chat completions, one-shot completions, audio
// transcription, and speech synthesis. It is read-only after construction
// and safe for concurrent use across request handlers.
type Client struct {
	api *openai.Client
	cfg config.OpenAIConfig
}

// New creates a provider client from config. BaseURL is overridable so tests
// can point the client at a local fake.
func New(cfg config.OpenAIConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api: openai.NewClientWithConfig(apiCfg),
		cfg: cfg,
	}
}
