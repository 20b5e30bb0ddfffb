package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cardbot/internal/app/fallback"
	"cardbot/internal/app/tools"
	"cardbot/internal/config"
	"cardbot/internal/handler/http/router"
	"cardbot/internal/infrastructure/classifier"
	kafka_infra "cardbot/internal/infrastructure/kafka"
	"cardbot/internal/infrastructure/qna"
	"cardbot/internal/outbox"
	"cardbot/internal/repository/accounts_repo"
	accounts_memory "cardbot/internal/repository/accounts_repo/memory"
	outbox_memory "cardbot/internal/repository/outbox_repo/memory"
	"cardbot/internal/session"
	"cardbot/internal/util"
	"cardbot/internal/validation"
)

func newLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	return zapConfig.Build()
}

func newSessionStore(cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		logger.Info("Using in-memory session store.")
		return session.NewMemoryStore(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Info("Using Redis session store.", zap.String("prefix", cfg.RedisSessionPrefix))

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing Redis client", zap.Error(err))
		}
	}
	return session.NewRedisStore(client, cfg.RedisSessionPrefix, cfg.SessionTTL), closeFn, nil
}

func newProducer(cfg *config.Config, logger *zap.Logger) kafka_infra.Producer {
	if !cfg.KafkaEnabled {
		logger.Info("Kafka disabled, payment events will be logged only.")
		return kafka_infra.NewLogProducer(logger.With(zap.String("component", "EventLog")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := kafka_infra.EnsureTopics(ctx, cfg.GetKafkaBrokers(), []string{cfg.KafkaPaymentEventsTopic}, logger); err != nil {
		logger.Warn("Failed to ensure Kafka topics", zap.Error(err))
	}
	return kafka_infra.NewProducer(cfg.GetKafkaBrokers(), logger.With(zap.String("component", "KafkaProducer")))
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Card bot tool service starting...")

	sessions, closeSessions, err := newSessionStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up session store", zap.Error(err))
	}
	defer closeSessions()

	accountRepository := accounts_memory.NewAccountRepository(accounts_repo.DefaultSeed())
	outboxRepository := outbox_memory.NewOutboxRepository()

	policy := validation.DefaultPolicy()
	policy.CardPaymentLimit = cfg.CardPaymentLimit()
	policy.HorizonDays = cfg.DueDateHorizonDays

	toolService := tools.NewService(
		accountRepository,
		outbox.NewRecorder(outboxRepository),
		util.NewTokenIssuer(),
		tools.Config{
			DefaultCardAccount:     cfg.DefaultCardAccount,
			DefaultCheckingAccount: cfg.DefaultCheckingAccount,
			Policy:                 policy,
		},
		appLogger.With(zap.String("component", "ToolService")),
	)

	fallbackHook := fallback.NewHook(
		classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout),
		qna.NewClient(cfg.QnAURL, cfg.QnATimeout),
		appLogger.With(zap.String("component", "FallbackHook")),
	)
	appLogger.Info("Services initialized.")

	producer := newProducer(cfg, appLogger)
	defer func() {
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing event producer", zap.Error(err))
		}
	}()

	outboxProcessor := outbox.NewProcessor(
		outboxRepository,
		producer,
		cfg.KafkaPaymentEventsTopic,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		cfg.OutboxMaxAttempts,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)

	handler := router.NewRouter(router.Dependencies{
		Tools:          toolService,
		Sessions:       sessions,
		Fallback:       fallbackHook,
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		RequestTimeout: 60 * time.Second,
	}, appLogger.With(zap.String("component", "HTTPHandler")))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	ctxMain, cancelMain := context.WithCancel(context.Background())
	defer cancelMain()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go outboxProcessor.Start(ctxMain)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	outboxProcessor.Stop()
	select {
	case <-outboxProcessor.Done():
	case <-time.After(5 * time.Second):
		appLogger.Warn("Outbox processor did not stop within 5 seconds.")
	}

	appLogger.Info("Application gracefully shut down.")
}
