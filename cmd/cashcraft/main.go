package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cashcraft/internal/advisor"
	"cashcraft/internal/config"
	"cashcraft/internal/events"
	apphttp "cashcraft/internal/http"
	"cashcraft/internal/ledger"
	applog "cashcraft/internal/log"
	"cashcraft/internal/storage"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     parseLogLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var (
		store  storage.KV
		pinger apphttp.Pinger
	)
	switch cfg.DataBackend {
	case "sqlite":
		db, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		store, pinger = db, db
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		store = storage.NewMemoryKV()
		logger.Info("Initialized memory backend")
	}

	var sink ledger.EventSink
	if cfg.EventsEnabled() {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", applog.FieldError, err.Error())
			os.Exit(1)
		}
		defer publisher.Close()
		sink = publisher
		logger.Info("Ledger events enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := ledger.NewService(store, sink, logger)
	if err := svc.Load(context.Background()); err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var chatClient advisor.Client
	if cfg.AdvisorEnabled() {
		chatClient = advisor.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.AdvisorModel)
		logger.Info("Advisor enabled", applog.FieldModel, cfg.AdvisorModel)
	} else {
		logger.Warn("Advisor disabled: no API key configured")
	}
	adv := advisor.New(chatClient, logger)

	srv := apphttp.NewServer(":"+cfg.Port, svc, adv, pinger, logger)

	// Streaming advisor replies rule out a server-wide write timeout;
	// read and idle limits still apply.
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting cashcraft server",
			"port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
