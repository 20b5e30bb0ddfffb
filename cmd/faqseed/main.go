package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cardbot/internal/config"
	"cardbot/internal/faq"
	"cardbot/internal/infrastructure/qna"
)

// faqseed loads the FAQ files listed in FAQ_FILES from FAQ_DIR into the QnA service.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeder := faq.NewSeeder(qna.NewClient(cfg.QnAURL, cfg.QnATimeout), logger.With(zap.String("component", "FAQSeeder")))
	report := seeder.SeedFiles(ctx, cfg.FAQDir, cfg.GetFAQFiles())

	logger.Info("FAQ seeding finished",
		zap.String("qna_url", cfg.QnAURL),
		zap.Int("files", report.Files),
		zap.Int("missing", report.Missing),
		zap.Int("posted", report.Posted),
		zap.Int("failed", report.Failed))

	if report.Failed > 0 {
		os.Exit(1)
	}
}
