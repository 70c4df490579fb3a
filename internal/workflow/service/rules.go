package service

import (
	"context"
	"fmt"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

// SystemActor is recorded as TriggeredBy on events synthesized by rules.
const SystemActor = "workflow"

// Collaborating modules. A nil collaborator is skipped and only the workflow
// event is synthesized.
type (
	OrderUpdater interface {
		UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	}
	ProductionScheduler interface {
		CreateProductionTask(ctx context.Context, orderID string) error
	}
	PaymentRecorder interface {
		CreatePaymentRecord(ctx context.Context, orderID string) error
	}
)

type Collaborators struct {
	Orders     OrderUpdater
	Production ProductionScheduler
	Payments   PaymentRecorder
}

const (
	RuleOrderConfirmedToProduction = "order_confirmed_to_production"
	RuleProductionCompletedToOrder = "production_completed_to_order"
	RuleOrderCompletedToAccounting = "order_completed_to_accounting"
	RuleDesignApprovedToOrder      = "design_approved_to_order"
)

func statusBecomes(t models.EventType, statuses ...string) Condition {
	return func(ev *models.WorkflowEvent) bool {
		if ev.Type() != t {
			return false
		}
		for _, s := range statuses {
			if ev.NewStatus() == s {
				return true
			}
		}
		return false
	}
}

func (s *Service) defaultRules() []Rule {
	return []Rule{
		{
			Name:      RuleOrderConfirmedToProduction,
			From:      models.ModuleOrders,
			To:        models.ModuleProduction,
			Condition: statusBecomes(models.OrderStatusChange, string(domain.OrderConfirmed)),
			Action:    s.createProductionTask,
		},
		{
			Name:      RuleProductionCompletedToOrder,
			From:      models.ModuleProduction,
			To:        models.ModuleOrders,
			Condition: statusBecomes(models.ProductionStatusChange, string(domain.ProductionCompleted)),
			Action:    s.markOrderStatus(domain.OrderProductionCompleted),
		},
		{
			Name:      RuleOrderCompletedToAccounting,
			From:      models.ModuleOrders,
			To:        models.ModuleAccounting,
			Condition: statusBecomes(models.OrderStatusChange, string(domain.OrderCompleted)),
			Action:    s.createPaymentRecord,
		},
		{
			Name: RuleDesignApprovedToOrder,
			From: models.ModuleDesign,
			To:   models.ModuleOrders,
			Condition: statusBecomes(models.DesignStatusChange,
				string(domain.DesignApproved), string(domain.DesignConfirmedForPrinting)),
			Action: s.markOrderStatus(domain.OrderConfirmed),
		},
	}
}

func (s *Service) createProductionTask(ctx context.Context, ev *models.WorkflowEvent) error {
	if s.collab.Production != nil {
		if err := s.collab.Production.CreateProductionTask(ctx, ev.OrderID()); err != nil {
			return fmt.Errorf("create production task: %w", err)
		}
	}

	old, err := s.currentStatus(ctx, ev.OrderID(), models.ProductionStatusChange, DefaultProductionStatus)
	if err != nil {
		return err
	}

	s.logger.Info().Str("order_id", ev.OrderID()).Msg("production task created")
	return s.TriggerStatusChange(ctx, models.ProductionStatusChange, ev.OrderID(),
		old, string(domain.ProductionPending), SystemActor)
}

func (s *Service) createPaymentRecord(ctx context.Context, ev *models.WorkflowEvent) error {
	if s.collab.Payments != nil {
		if err := s.collab.Payments.CreatePaymentRecord(ctx, ev.OrderID()); err != nil {
			return fmt.Errorf("create payment record: %w", err)
		}
	}

	old, err := s.currentStatus(ctx, ev.OrderID(), models.PaymentStatusChange, DefaultPaymentStatus)
	if err != nil {
		return err
	}

	s.logger.Info().Str("order_id", ev.OrderID()).Msg("payment record created")
	return s.TriggerStatusChange(ctx, models.PaymentStatusChange, ev.OrderID(),
		old, string(domain.PaymentPending), SystemActor)
}

func (s *Service) markOrderStatus(status domain.OrderStatus) Action {
	return func(ctx context.Context, ev *models.WorkflowEvent) error {
		if s.collab.Orders != nil {
			if err := s.collab.Orders.UpdateOrderStatus(ctx, ev.OrderID(), status); err != nil {
				return fmt.Errorf("update order status to %s: %w", status, err)
			}
		}

		old, err := s.currentStatus(ctx, ev.OrderID(), models.OrderStatusChange, DefaultOrderStatus)
		if err != nil {
			return err
		}

		return s.TriggerStatusChange(ctx, models.OrderStatusChange, ev.OrderID(),
			old, string(status), SystemActor)
	}
}
