package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
	"github.com/romariotrain/printshop-workflow/internal/workflow/repository"
)

// EventRepo is the durable workflow log. Every appended event is also queued
// in the outbox within the same transaction.
type EventRepo struct {
	db     *sqlx.DB
	outbox *OutboxRepo
}

var _ repository.EventStore = (*EventRepo)(nil)

func NewEventRepo(db *sqlx.DB, outbox *OutboxRepo) *EventRepo {
	return &EventRepo{db: db, outbox: outbox}
}

type eventRow struct {
	ID          int64  `db:"id"`
	EventID     string `db:"event_id"`
	Type        string `db:"type"`
	OrderID     string `db:"order_id"`
	OldStatus   string `db:"old_status"`
	NewStatus   string `db:"new_status"`
	OccurredAt  int64  `db:"occurred_at"`
	TriggeredBy string `db:"triggered_by"`
}

func (row eventRow) toModel() (*models.WorkflowEvent, error) {
	id, err := uuid.Parse(row.EventID)
	if err != nil {
		return nil, fmt.Errorf("event %d: bad event_id: %w", row.ID, err)
	}
	return models.RestoreWorkflowEvent(id, models.EventType(row.Type), row.OrderID,
		row.OldStatus, row.NewStatus, time.Unix(0, row.OccurredAt).UTC(), row.TriggeredBy), nil
}

func toModels(rows []eventRow) ([]*models.WorkflowEvent, error) {
	out := make([]*models.WorkflowEvent, 0, len(rows))
	for _, row := range rows {
		ev, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

const selectEvents = `
	SELECT id, event_id, type, order_id, old_status, new_status, occurred_at, triggered_by
	FROM workflow_events
`

func (r *EventRepo) Append(ctx context.Context, ev *models.WorkflowEvent) error {
	if ev == nil {
		return models.ErrInvalidArgument
	}

	const q = `
		INSERT INTO workflow_events (event_id, type, order_id, old_status, new_status, occurred_at, triggered_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(q),
		ev.EventID().String(),
		string(ev.Type()),
		ev.OrderID(),
		ev.OldStatus(),
		ev.NewStatus(),
		ev.OccurredAt().UnixNano(),
		ev.TriggeredBy(),
	)
	if err != nil {
		return fmt.Errorf("insert workflow event: %w", err)
	}

	if r.outbox != nil {
		if err := r.outbox.Add(ctx, tx, ev); err != nil {
			return fmt.Errorf("add outbox: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *EventRepo) All(ctx context.Context) ([]*models.WorkflowEvent, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, selectEvents+` ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list workflow events: %w", err)
	}
	return toModels(rows)
}

func (r *EventRepo) ByOrder(ctx context.Context, orderID string) ([]*models.WorkflowEvent, error) {
	q := r.db.Rebind(selectEvents + ` WHERE order_id = ? ORDER BY id ASC`)

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, q, orderID); err != nil {
		return nil, fmt.Errorf("list workflow events by order: %w", err)
	}
	return toModels(rows)
}

func (r *EventRepo) LatestByType(ctx context.Context, orderID string, eventType models.EventType) (*models.WorkflowEvent, error) {
	q := r.db.Rebind(selectEvents + ` WHERE order_id = ? AND type = ? ORDER BY id DESC LIMIT 1`)

	var row eventRow
	if err := r.db.GetContext(ctx, &row, q, orderID, string(eventType)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("latest workflow event: %w", err)
	}
	return row.toModel()
}
