package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
	"github.com/romariotrain/printshop-workflow/internal/workflow/repository"
)

type Config struct {
	Store           repository.EventStore
	Collaborators   Collaborators
	MaxCascadeDepth int
	Logger          zerolog.Logger

	// WithoutDefaultRules starts the engine with an empty rule set.
	WithoutDefaultRules bool
}

// Service is the entry point other modules use to report status changes and
// to read the derived workflow state of an order.
type Service struct {
	engine *Engine
	store  repository.EventStore
	collab Collaborators
	logger zerolog.Logger
	clock  func() time.Time
	idGen  func() uuid.UUID
}

func New(cfg Config) (*Service, error) {
	engine, err := NewEngine(EngineConfig{
		Store:           cfg.Store,
		MaxCascadeDepth: cfg.MaxCascadeDepth,
		Logger:          cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{
		engine: engine,
		store:  cfg.Store,
		collab: cfg.Collaborators,
		logger: cfg.Logger.With().Str("component", "workflow_service").Logger(),
		clock:  time.Now,
		idGen:  uuid.New,
	}

	if !cfg.WithoutDefaultRules {
		for _, r := range s.defaultRules() {
			if err := engine.AddRule(r); err != nil {
				return nil, fmt.Errorf("register rule %s: %w", r.Name, err)
			}
		}
	}

	return s, nil
}

func (s *Service) Engine() *Engine { return s.engine }

func (s *Service) AddRule(r Rule) error { return s.engine.AddRule(r) }

func (s *Service) ProcessEvent(ctx context.Context, ev *models.WorkflowEvent) error {
	return s.engine.ProcessEvent(ctx, ev)
}

// TriggerStatusChange records that a module changed the status of something
// belonging to orderID and runs the workflow rules for it.
func (s *Service) TriggerStatusChange(ctx context.Context, eventType models.EventType,
	orderID, oldStatus, newStatus, triggeredBy string) error {
	_, err := s.RecordStatusChange(ctx, eventType, orderID, oldStatus, newStatus, triggeredBy)
	return err
}

// RecordStatusChange is TriggerStatusChange returning the recorded event.
// The event is returned only when the whole cascade settled without error.
func (s *Service) RecordStatusChange(ctx context.Context, eventType models.EventType,
	orderID, oldStatus, newStatus, triggeredBy string) (*models.WorkflowEvent, error) {
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", models.ErrInvalidArgument, eventType)
	}
	if orderID == "" || newStatus == "" {
		return nil, fmt.Errorf("%w: order_id and new_status are required", models.ErrInvalidArgument)
	}

	ev := models.RestoreWorkflowEvent(s.idGen(), eventType, orderID, oldStatus, newStatus, s.clock(), triggeredBy)
	if err := s.engine.ProcessEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// ChangeDesignStatus applies the design state machine before reporting the
// change. from must match the design status recorded for the order, if any,
// otherwise models.ErrConflict is returned. A rejected change returns a
// *domain.TransitionError whose message is meant for the requester. Staying on
// the same status records nothing.
func (s *Service) ChangeDesignStatus(ctx context.Context, orderID string,
	from, to domain.DesignStatus, triggeredBy string) error {
	if orderID == "" {
		return models.ErrInvalidArgument
	}

	recorded, err := s.currentStatus(ctx, orderID, models.DesignStatusChange, "")
	if err != nil {
		return err
	}
	if recorded != "" && recorded != string(from) {
		return fmt.Errorf("%w: design of order %s is %q, not %q", models.ErrConflict, orderID, recorded, from)
	}

	if err := domain.ValidateDesignTransition(from, to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	return s.TriggerStatusChange(ctx, models.DesignStatusChange, orderID, string(from), string(to), triggeredBy)
}

func (s *Service) EventHistory(ctx context.Context) ([]*models.WorkflowEvent, error) {
	return s.store.All(ctx)
}

func (s *Service) EventsByOrder(ctx context.Context, orderID string) ([]*models.WorkflowEvent, error) {
	if orderID == "" {
		return nil, models.ErrInvalidArgument
	}
	return s.store.ByOrder(ctx, orderID)
}

// ProjectOrderFlow parses the raw inputs coming from the order screens.
func (s *Service) ProjectOrderFlow(status, customerKind string, hasDeposit bool) ([]domain.FlowStep, error) {
	kind, err := domain.ParseCustomerKind(customerKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	return domain.ProjectOrderFlow(domain.OrderStatus(status), kind, hasDeposit), nil
}

// currentStatus returns the newest status of eventType for the order, or def
// when nothing has been recorded yet.
func (s *Service) currentStatus(ctx context.Context, orderID string, eventType models.EventType, def string) (string, error) {
	ev, err := s.store.LatestByType(ctx, orderID, eventType)
	if errors.Is(err, models.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return ev.NewStatus(), nil
}
