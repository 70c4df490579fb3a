package service

import (
	"context"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

// Statuses reported for a module that has not emitted any event yet.
const (
	DefaultOrderStatus      = string(domain.OrderPending)
	DefaultDesignStatus     = "not_started"
	DefaultProductionStatus = string(domain.ProductionNotStarted)
	DefaultPaymentStatus    = string(domain.PaymentNotStarted)
)

// WorkflowStatus derives the order summary from the log on every call.
// The newest event of each type wins; nothing checks that the four values
// make sense together.
func (s *Service) WorkflowStatus(ctx context.Context, orderID string) (models.WorkflowStatus, error) {
	st := models.WorkflowStatus{
		Order:      DefaultOrderStatus,
		Design:     DefaultDesignStatus,
		Production: DefaultProductionStatus,
		Payment:    DefaultPaymentStatus,
	}
	if orderID == "" {
		return st, models.ErrInvalidArgument
	}

	events, err := s.store.ByOrder(ctx, orderID)
	if err != nil {
		return st, err
	}

	for _, ev := range events {
		switch ev.Type() {
		case models.OrderStatusChange:
			st.Order = ev.NewStatus()
		case models.DesignStatusChange:
			st.Design = ev.NewStatus()
		case models.ProductionStatusChange:
			st.Production = ev.NewStatus()
		case models.PaymentStatusChange:
			st.Payment = ev.NewStatus()
		}
	}

	return st, nil
}
