package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
	"github.com/romariotrain/printshop-workflow/internal/workflow/repository"
)

const DefaultMaxCascadeDepth = 16

type (
	Condition func(ev *models.WorkflowEvent) bool
	Action    func(ctx context.Context, ev *models.WorkflowEvent) error
)

// Rule propagates a status change from one module to another.
type Rule struct {
	Name      string
	From      models.Module
	To        models.Module
	Condition Condition
	Action    Action
}

type EngineConfig struct {
	Store           repository.EventStore
	MaxCascadeDepth int
	Logger          zerolog.Logger
}

// EngineStats is a snapshot of the engine counters.
type EngineStats struct {
	EventsProcessed  int64
	RulesMatched     int64
	ActionsFailed    int64
	CascadesRejected int64
}

// Engine records every incoming event and runs the actions of all matching
// rules. Actions usually feed new events back into ProcessEvent, so one change
// can cascade through several modules.
//
// There is no locking around a cascade: events for the same order submitted
// from different goroutines may interleave their cascades in any order.
type Engine struct {
	store    repository.EventStore
	maxDepth int
	logger   zerolog.Logger

	mu    sync.RWMutex
	rules []Rule

	eventsProcessed  atomic.Int64
	rulesMatched     atomic.Int64
	actionsFailed    atomic.Int64
	cascadesRejected atomic.Int64
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if cfg.MaxCascadeDepth < 0 {
		return nil, fmt.Errorf("max cascade depth cannot be negative, got: %d", cfg.MaxCascadeDepth)
	}
	if cfg.MaxCascadeDepth == 0 {
		cfg.MaxCascadeDepth = DefaultMaxCascadeDepth
	}

	return &Engine{
		store:    cfg.Store,
		maxDepth: cfg.MaxCascadeDepth,
		logger:   cfg.Logger.With().Str("component", "workflow_engine").Logger(),
	}, nil
}

func (e *Engine) AddRule(r Rule) error {
	if r.Condition == nil || r.Action == nil {
		return fmt.Errorf("%w: rule %q needs a condition and an action", models.ErrInvalidArgument, r.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, r)
	return nil
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

type cascadeDepthKey struct{}

func cascadeDepth(ctx context.Context) int {
	d, _ := ctx.Value(cascadeDepthKey{}).(int)
	return d
}

// ProcessEvent appends ev to the log and then runs, one after another and in
// registration order, the action of every rule whose condition holds.
//
// A failing action is logged and skipped; it never fails ProcessEvent. The only
// errors returned are store failures and domain.ErrCascadeDepthExceeded, which
// travels up through every enclosing cascade level to the original caller.
func (e *Engine) ProcessEvent(ctx context.Context, ev *models.WorkflowEvent) error {
	if ev == nil {
		return models.ErrInvalidArgument
	}

	depth := cascadeDepth(ctx)
	log := e.logger.With().
		Str("event_id", ev.EventID().String()).
		Str("event_type", ev.EventType()).
		Str("order_id", ev.OrderID()).
		Int("depth", depth).
		Logger()

	if depth >= e.maxDepth {
		e.cascadesRejected.Add(1)
		log.Error().
			Int("max_depth", e.maxDepth).
			Msg("cascade depth exceeded, check the rule set for cycles")
		return fmt.Errorf("%w: %s at depth %d", domain.ErrCascadeDepthExceeded, ev, depth)
	}

	if err := e.store.Append(ctx, ev); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	e.eventsProcessed.Add(1)

	log.Debug().
		Str("old_status", ev.OldStatus()).
		Str("new_status", ev.NewStatus()).
		Msg("event recorded")

	nested := context.WithValue(ctx, cascadeDepthKey{}, depth+1)

	for _, rule := range e.Rules() {
		if !rule.Condition(ev) {
			continue
		}
		e.rulesMatched.Add(1)

		ruleLog := log.With().
			Str("rule", rule.Name).
			Str("from", string(rule.From)).
			Str("to", string(rule.To)).
			Logger()
		ruleLog.Debug().Msg("rule matched")

		if err := rule.Action(nested, ev); err != nil {
			if errors.Is(err, domain.ErrCascadeDepthExceeded) {
				return err
			}
			e.actionsFailed.Add(1)
			ruleLog.Error().
				Err(err).
				Msg("workflow rule action failed")
			// failures are isolated per rule
		}
	}

	return nil
}

func (e *Engine) Stats() EngineStats {
	return EngineStats{
		EventsProcessed:  e.eventsProcessed.Load(),
		RulesMatched:     e.rulesMatched.Load(),
		ActionsFailed:    e.actionsFailed.Load(),
		CascadesRejected: e.cascadesRejected.Load(),
	}
}
