package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/storage/sqlstore"
)

type Store interface {
	GetPending(ctx context.Context, limit int) ([]sqlstore.OutboxRecord, error)
	MarkProcessed(ctx context.Context, id int64) error
}

type MessagePublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Publisher relays queued workflow events to the broker with at-least-once
// delivery. Consumers must tolerate duplicates.
type Publisher struct {
	store     Store
	producer  MessagePublisher
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

type PublisherConfig struct {
	Store     Store
	Producer  MessagePublisher
	Interval  time.Duration
	BatchSize int
	Logger    zerolog.Logger
}

// BatchResult summarises one relay pass.
type BatchResult struct {
	Total     int
	Published int
	Failed    int
	Marked    int
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if cfg.Producer == nil {
		return nil, fmt.Errorf("message producer is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %v", cfg.Interval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got: %d", cfg.BatchSize)
	}

	return &Publisher{
		store:     cfg.Store,
		producer:  cfg.Producer,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger.With().Str("component", "outbox_publisher").Logger(),
	}, nil
}

// Start polls the outbox every interval until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Int("batch_size", p.batchSize).
		Msg("outbox publisher started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().
				Err(ctx.Err()).
				Msg("outbox publisher stopped")
			return ctx.Err()

		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.Error().
					Err(err).
					Msg("failed to publish batch")
			}
		}
	}
}

// PublishBatch relays one batch of pending records. A record that fails to
// publish stays pending and is retried on the next pass.
func (p *Publisher) PublishBatch(ctx context.Context) (BatchResult, error) {
	records, err := p.store.GetPending(ctx, p.batchSize)
	if err != nil {
		return BatchResult{}, fmt.Errorf("get pending records: %w", err)
	}

	res := BatchResult{Total: len(records)}
	if len(records) == 0 {
		p.logger.Debug().Msg("no pending events to publish")
		return res, nil
	}

	for _, record := range records {
		eventLogger := p.logger.With().
			Str("event_id", record.EventID).
			Str("event_type", record.EventType).
			Str("order_id", record.AggregateID).
			Int64("outbox_id", record.ID).
			Logger()

		// keyed by order so one order's events land on one partition
		if err := p.producer.Publish(ctx, record.AggregateID, record.Payload); err != nil {
			eventLogger.Error().
				Err(err).
				Msg("failed to publish event")
			res.Failed++
			continue
		}
		res.Published++

		if err := p.store.MarkProcessed(ctx, record.ID); err != nil {
			// published but still pending: it goes out again next pass
			eventLogger.Warn().
				Err(err).
				Msg("failed to mark event as processed")
			continue
		}
		res.Marked++
	}

	p.logger.Info().
		Int("total", res.Total).
		Int("published", res.Published).
		Int("failed", res.Failed).
		Int("marked", res.Marked).
		Msg("batch processing completed")

	return res, nil
}
