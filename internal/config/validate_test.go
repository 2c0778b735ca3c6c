package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "pharmachat",
			Password: "secret", Name: "pharmachat", SSLMode: "disable", MaxConns: 25,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		OpenAI: OpenAIConfig{
			APIKey:         "sk-test",
			ChatModel:      "gpt-4o-mini",
			EmbeddingModel: "text-embedding-ada-002",
			EmbeddingDim:   1536,
		},
		Retrieval: RetrievalConfig{Threshold: 0.7, TopK: 5},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected OPENAI_API_KEY error, got: %v", err)
	}
}

func TestValidate_MissingDBPassword(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Fatalf("expected DB_PASSWORD error, got: %v", err)
	}
}

func TestValidate_ThresholdOutOfRange(t *testing.T) {
	for _, th := range []float64{-1, 1, 1.5, -2} {
		cfg := validConfig()
		cfg.Retrieval.Threshold = th
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "RETRIEVAL_THRESHOLD") {
			t.Fatalf("threshold %g: expected RETRIEVAL_THRESHOLD error, got: %v", th, err)
		}
	}
}

func TestValidate_ThresholdWithinRange(t *testing.T) {
	for _, th := range []float64{0.5, 0.7, -0.5, 0.99} {
		cfg := validConfig()
		cfg.Retrieval.Threshold = th
		if err := cfg.Validate(); err != nil {
			t.Fatalf("threshold %g: expected no error, got: %v", th, err)
		}
	}
}

func TestValidate_TopKOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.TopK = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "RETRIEVAL_TOP_K") {
		t.Fatalf("expected RETRIEVAL_TOP_K error, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""
	cfg.DB.Password = ""
	cfg.Server.Port = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"OPENAI_API_KEY", "DB_PASSWORD", "SERVER_PORT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestValidate_BadPorts(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Port = 70000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PORT") {
		t.Fatalf("expected DB_PORT error, got: %v", err)
	}
}
