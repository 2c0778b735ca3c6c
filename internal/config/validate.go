package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks Config for startup-critical problems.
// It collects all errors into a single joined error so operators see the
// full list at once instead of fixing one variable per restart.
func (c *Config) Validate() error {
	var errs []string

	// Provider credentials: absence is fatal at startup, not per-request.
	if c.OpenAI.APIKey == "" {
		errs = append(errs, "OPENAI_API_KEY is required")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Retrieval tuning
	if c.Retrieval.Threshold <= -1 || c.Retrieval.Threshold >= 1 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_THRESHOLD must be within (-1, 1), got %g", c.Retrieval.Threshold))
	}
	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 50 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_TOP_K must be 1–50, got %d", c.Retrieval.TopK))
	}
	if c.OpenAI.EmbeddingDim < 1 {
		errs = append(errs, fmt.Sprintf("OPENAI_EMBEDDING_DIM must be positive, got %d", c.OpenAI.EmbeddingDim))
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
