package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

type OutboxRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

type OutboxRecord struct {
	ID          int64  `db:"id"`
	EventID     string `db:"event_id"`
	EventType   string `db:"event_type"`
	AggregateID string `db:"aggregate_id"`
	Payload     []byte `db:"payload"`
	OccurredAt  int64  `db:"occurred_at"`
}

func NewOutboxRepo(db *sqlx.DB) *OutboxRepo {
	return &OutboxRepo{db: db, now: time.Now}
}

// Add must run inside the transaction that stores the event itself.
func (r *OutboxRepo) Add(ctx context.Context, tx *sqlx.Tx, event models.DomainEvent) error {
	const q = `
		INSERT INTO outbox (event_id, event_type, aggregate_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(q),
		event.EventID().String(),
		event.EventType(),
		event.AggregateID(),
		string(payload),
		event.OccurredAt().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}

	return nil
}

func (r *OutboxRepo) GetPending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	const q = `
		SELECT id, event_id, event_type, aggregate_id, payload, occurred_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY id ASC
		LIMIT ?
	`

	var records []OutboxRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(q), limit); err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}

	return records, nil
}

func (r *OutboxRepo) MarkProcessed(ctx context.Context, id int64) error {
	const q = `
		UPDATE outbox
		SET processed_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), r.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark processed %d: %w", id, models.ErrNotFound)
	}

	return nil
}
