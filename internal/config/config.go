package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	NATS      NATSConfig
	OpenAI    OpenAIConfig
	Retrieval RetrievalConfig
	Memory    MemoryConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

// OpenAIConfig covers every provider call the pipeline makes: embeddings,
// chat completions, query rewriting, transcription, and speech synthesis.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	RewriteModel   string
	EmbeddingModel string
	EmbeddingDim   int
	STTModel       string
	TTSModel       string
	TTSVoice       string
}

type RetrievalConfig struct {
	// Threshold is the minimum cosine similarity a passage must strictly
	// exceed to be included. 0.5 is lenient, 0.7 is strict.
	Threshold      float64
	TopK           int
	RewriteEnabled bool
}

type MemoryConfig struct {
	MaxShortTermMsgs int
	ShortTermTTL     time.Duration
}

type RateLimitConfig struct {
	Enabled   bool
	MaxReqs   int
	WindowSec int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			Enabled: k.Bool("nats.enabled"),
			URL:     k.String("nats.url"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         k.String("openai.api.key"),
			BaseURL:        k.String("openai.base.url"),
			ChatModel:      k.String("openai.chat.model"),
			RewriteModel:   k.String("openai.rewrite.model"),
			EmbeddingModel: k.String("openai.embedding.model"),
			EmbeddingDim:   k.Int("openai.embedding.dim"),
			STTModel:       k.String("openai.stt.model"),
			TTSModel:       k.String("openai.tts.model"),
			TTSVoice:       k.String("openai.tts.voice"),
		},
		Retrieval: RetrievalConfig{
			Threshold:      k.Float64("retrieval.threshold"),
			TopK:           k.Int("retrieval.top.k"),
			RewriteEnabled: k.Bool("retrieval.rewrite.enabled"),
		},
		Memory: MemoryConfig{
			MaxShortTermMsgs: k.Int("memory.max.shortterm.msgs"),
		},
		RateLimit: RateLimitConfig{
			Enabled:   k.Bool("ratelimit.enabled"),
			MaxReqs:   k.Int("ratelimit.max.reqs"),
			WindowSec: k.Int("ratelimit.window.sec"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, o)
			}
		}
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "pharmachat"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "pharmachat"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.RewriteModel == "" {
		cfg.OpenAI.RewriteModel = cfg.OpenAI.ChatModel
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-ada-002"
	}
	if cfg.OpenAI.EmbeddingDim == 0 {
		cfg.OpenAI.EmbeddingDim = 1536
	}
	if cfg.OpenAI.STTModel == "" {
		cfg.OpenAI.STTModel = "whisper-1"
	}
	if cfg.OpenAI.TTSModel == "" {
		cfg.OpenAI.TTSModel = "tts-1"
	}
	if cfg.OpenAI.TTSVoice == "" {
		cfg.OpenAI.TTSVoice = "alloy"
	}
	if cfg.Retrieval.Threshold == 0 {
		cfg.Retrieval.Threshold = 0.7
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if !k.Exists("retrieval.rewrite.enabled") {
		cfg.Retrieval.RewriteEnabled = true
	}
	if cfg.Memory.MaxShortTermMsgs == 0 {
		cfg.Memory.MaxShortTermMsgs = 20
	}
	if cfg.RateLimit.MaxReqs == 0 {
		cfg.RateLimit.MaxReqs = 30
	}
	if cfg.RateLimit.WindowSec == 0 {
		cfg.RateLimit.WindowSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	ttlStr := k.String("memory.shortterm.ttl")
	if ttlStr == "" {
		ttlStr = "1h"
	}
	cfg.Memory.ShortTermTTL, err = time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("parsing memory short-term ttl: %w", err)
	}

	return cfg, nil
}
