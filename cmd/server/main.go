package main // Entry point package

import (
	"context"   // startup and shutdown deadlines
	"errors"    // distinguishing a clean server close
	"net/http"  // http.ErrServerClosed
	"os"        // environment lookups
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // SIGTERM
	"time"      // shutdown grace period

	"github.com/joho/godotenv"    // optional .env file for local runs
	"github.com/labstack/echo/v4" // Echo web framework
	"go.uber.org/zap"             // structured logging

	"github.com/iliyamo/assistant-threads/internal/assistant"  // hosted assistant gateway
	"github.com/iliyamo/assistant-threads/internal/config"     // configuration loader
	"github.com/iliyamo/assistant-threads/internal/database"   // MySQL connection for token lookups
	"github.com/iliyamo/assistant-threads/internal/handler"    // HTTP handlers
	"github.com/iliyamo/assistant-threads/internal/middleware" // bearer auth and rate limiting
	"github.com/iliyamo/assistant-threads/internal/queue"      // audit consumer
	"github.com/iliyamo/assistant-threads/internal/repository" // token, user, thread and message stores
	"github.com/iliyamo/assistant-threads/internal/router"     // route registration
	"github.com/iliyamo/assistant-threads/internal/service"    // event publisher
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; real deployments use the environment

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		// The logger depends on app.env, so fall back to a production one.
		zap.Must(zap.NewProduction()).Fatal("load config failed", zap.Error(err))
	}

	logger := newLogger(cfg.App.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("connect mysql failed", zap.Error(err))
	}
	defer db.Close()

	tokens, err := repository.NewTokenRepo(db, cfg.DB.TokenTable, logger)
	if err != nil {
		logger.Fatal("token repository", zap.Error(err))
	}

	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("connect redis failed", zap.Error(err))
	}
	defer rdb.Close()

	keys := repository.Keyspace{Prefix: cfg.Redis.KeyPrefix}
	gw := assistant.NewOpenAIGateway(cfg.OpenAI, logger)

	var events handler.EventPublisher = service.Discard{}
	if cfg.RabbitMQ.Enabled {
		events = service.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if cfg.RabbitMQ.AuditConsumer {
			audit := &queue.AuditConsumer{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue, Logger: logger}
			go func() {
				if err := audit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("audit consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	h := handler.NewConversationHandler(
		repository.NewUserRepo(rdb, keys),
		repository.NewThreadRepo(rdb, keys),
		repository.NewConversationRepo(rdb, keys),
		gw,
		events,
		handler.Settings{
			AssistantID:    cfg.OpenAI.AssistantID,
			Instructions:   cfg.OpenAI.Instructions,
			RequestTimeout: cfg.App.RequestTimeout,
			RunTimeout:     cfg.OpenAI.RunTimeout,
		},
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	router.Use(e, logger)
	router.RegisterRoutes(e)
	router.RegisterConversation(e, h,
		middleware.BearerAuth(tokens, cfg.App.RequestTimeout),
		middleware.NewRateLimiter(cfg.RateLimit, rdb, logger))

	addr := ":" + cfg.App.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// In-flight SendMessage calls may be waiting on a run.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.OpenAI.RunTimeout+5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "dev" || env == "development" {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
