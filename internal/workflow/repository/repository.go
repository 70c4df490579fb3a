package repository

import (
	"context"

	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

// EventStore is the append-only workflow history. Implementations must return
// events in insertion order and never modify or drop a stored event.
type EventStore interface {
	Append(ctx context.Context, ev *models.WorkflowEvent) error
	All(ctx context.Context) ([]*models.WorkflowEvent, error)
	ByOrder(ctx context.Context, orderID string) ([]*models.WorkflowEvent, error)
	// LatestByType returns models.ErrNotFound when the order has no event of that type.
	LatestByType(ctx context.Context, orderID string, eventType models.EventType) (*models.WorkflowEvent, error)
}
