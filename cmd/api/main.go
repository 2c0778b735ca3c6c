package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/pharmachat/pharmachat/internal/ai"
	"github.com/pharmachat/pharmachat/internal/api"
	"github.com/pharmachat/pharmachat/internal/chat"
	"github.com/pharmachat/pharmachat/internal/config"
	"github.com/pharmachat/pharmachat/internal/corpus"
	"github.com/pharmachat/pharmachat/internal/database"
	"github.com/pharmachat/pharmachat/internal/memory"
	"github.com/pharmachat/pharmachat/internal/middleware"
	inats "github.com/pharmachat/pharmachat/internal/nats"
	iredis "github.com/pharmachat/pharmachat/internal/redis"
	"github.com/pharmachat/pharmachat/internal/server"
	"github.com/pharmachat/pharmachat/internal/speech"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Provider client: embeddings, chat, rewriting, speech
	aiClient := ai.New(cfg.OpenAI)

	// Memory: short-term history in Redis, long-term store in Postgres
	memorySvc := memory.NewService(
		memory.NewPostgresStore(pool),
		memory.NewShortTermStore(redisClient),
		aiClient,
		cfg.Memory,
	)

	// NATS JetStream queues captures so a slow or failed write never touches
	// the response path. Without NATS, captures run on a detached goroutine.
	var (
		natsClient *inats.Client
		capturer   chat.Capturer
	)
	if cfg.NATS.Enabled {
		natsClient, err = inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()

		capturer = memory.NewQueueCapturer(inats.NewPublisher(natsClient.JetStream()))

		consumer := memory.NewConsumer(memorySvc, inats.NewConsumerManager(natsClient.JetStream()))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("memory capture consumer stopped", "error", err)
			}
		}()
	} else {
		capturer = memory.NewDirectCapturer(memorySvc)
	}

	// Chat pipeline
	var rewriter *chat.QueryRewriter
	if cfg.Retrieval.RewriteEnabled {
		rewriter = chat.NewQueryRewriter(aiClient)
	}
	chatSvc := chat.NewService(
		aiClient,
		corpus.NewPostgresRepository(pool),
		aiClient,
		rewriter,
		capturer,
		cfg.Retrieval,
	)
	chatHandler := chat.NewHandler(chatSvc)

	// Speech adapters
	speechHandler := speech.NewHandler(aiClient, aiClient)

	var chatRateLimiter func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		chatRateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.MaxReqs, cfg.RateLimit.WindowSec).Middleware
	}

	router := api.NewRouter(pool, redisClient, natsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		ChatRateLimiter:    chatRateLimiter,
	}, api.HandlerSet{
		Chat:       chatHandler.Chat,
		Transcribe: speechHandler.Transcribe,
		Synthesize: speechHandler.Synthesize,
	})

	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
