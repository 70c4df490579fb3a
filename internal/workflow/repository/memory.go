package repository

import (
	"context"
	"sync"

	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

// MemoryEventStore keeps the whole history in process memory. It is unbounded
// and lost on restart.
type MemoryEventStore struct {
	mu      sync.RWMutex
	events  []*models.WorkflowEvent
	byOrder map[string][]int
}

var _ EventStore = (*MemoryEventStore)(nil)

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		byOrder: make(map[string][]int),
	}
}

func (s *MemoryEventStore) Append(ctx context.Context, ev *models.WorkflowEvent) error {
	if ev == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byOrder[ev.OrderID()] = append(s.byOrder[ev.OrderID()], len(s.events))
	s.events = append(s.events, ev)
	return nil
}

func (s *MemoryEventStore) All(ctx context.Context) ([]*models.WorkflowEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// events are immutable, copying the slice header is enough
	out := make([]*models.WorkflowEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *MemoryEventStore) ByOrder(ctx context.Context, orderID string) ([]*models.WorkflowEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byOrder[orderID]
	out := make([]*models.WorkflowEvent, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *MemoryEventStore) LatestByType(ctx context.Context, orderID string, eventType models.EventType) (*models.WorkflowEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byOrder[orderID]
	for i := len(idx) - 1; i >= 0; i-- {
		if ev := s.events[idx[i]]; ev.Type() == eventType {
			return ev, nil
		}
	}
	return nil, models.ErrNotFound
}
