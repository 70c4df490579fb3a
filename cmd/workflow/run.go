package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/config"
	"github.com/romariotrain/printshop-workflow/internal/storage/sqlstore"
	"github.com/romariotrain/printshop-workflow/internal/workflow/httpapi"
	"github.com/romariotrain/printshop-workflow/internal/workflow/kafka"
	"github.com/romariotrain/printshop-workflow/internal/workflow/outbox"
	"github.com/romariotrain/printshop-workflow/internal/workflow/repository"
	"github.com/romariotrain/printshop-workflow/internal/workflow/service"
)

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	var (
		store      repository.EventStore
		outboxRepo *sqlstore.OutboxRepo
	)

	if cfg.StoreDriver == config.StoreMemory {
		store = repository.NewMemoryEventStore()
	} else {
		dsn := cfg.DatabaseURL
		if cfg.StoreDriver == config.StoreSQLite {
			dsn = cfg.SQLitePath
		}

		db, err := sqlstore.Open(ctx, cfg.StoreDriver, dsn)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close()

		outboxRepo = sqlstore.NewOutboxRepo(db)
		store = sqlstore.NewEventRepo(db, outboxRepo)
	}
	logger.Info().Str("store", cfg.StoreDriver).Msg("event store ready")

	// Dependencies
	svc, err := service.New(service.Config{
		Store:           store,
		MaxCascadeDepth: cfg.MaxCascadeDepth,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("workflow service: %w", err)
	}
	router := httpapi.NewRouter(httpapi.New(svc, logger))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)

	if cfg.RelayEnabled() {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer producer.Close()

		publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
			Store:     outboxRepo,
			Producer:  producer,
			Interval:  cfg.OutboxInterval,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("outbox publisher: %w", err)
		}

		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("outbox publisher: %w", err)
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("listen and serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		stats := svc.Engine().Stats()
		logger.Info().
			Int64("events_processed", stats.EventsProcessed).
			Int64("actions_failed", stats.ActionsFailed).
			Int64("cascades_rejected", stats.CascadesRejected).
			Msg("workflow engine stopped")
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
