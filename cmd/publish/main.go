package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/app"
	"github.com/romariotrain/printshop-workflow/internal/config"
	"github.com/romariotrain/printshop-workflow/internal/storage/sqlstore"
	"github.com/romariotrain/printshop-workflow/internal/workflow/kafka"
	"github.com/romariotrain/printshop-workflow/internal/workflow/outbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "publish: config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger("publish", cfg.LogLevel, cfg.LogFormat)
	code := app.Run(logger, func(ctx context.Context) error {
		return run(ctx, cfg, logger)
	})
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if !cfg.RelayEnabled() {
		return fmt.Errorf("relay needs KAFKA_BROKERS and a sql STORE_DRIVER, got store %q", cfg.StoreDriver)
	}

	dsn := cfg.DatabaseURL
	if cfg.StoreDriver == config.StoreSQLite {
		dsn = cfg.SQLitePath
	}
	db, err := sqlstore.Open(ctx, cfg.StoreDriver, dsn)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer db.Close()

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	if err := producer.HealthCheck(ctx); err != nil {
		logger.Warn().Err(err).Msg("kafka not reachable yet, relying on retries")
	}

	publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
		Store:     sqlstore.NewOutboxRepo(db),
		Producer:  producer,
		Interval:  cfg.OutboxInterval,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("outbox publisher: %w", err)
	}

	err = publisher.Start(ctx)
	m := producer.GetMetrics()
	logger.Info().
		Int64("published", m.MessagesPublished).
		Int64("failed", m.MessagesFailed).
		Int64("retries", m.RetriesTotal).
		Dur("avg_publish_time", m.AvgPublishTime).
		Msg("relay stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
