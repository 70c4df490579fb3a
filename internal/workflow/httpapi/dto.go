package httpapi

import (
	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

type TriggerEventRequest struct {
	Type        string `json:"type"`
	OrderID     string `json:"order_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	TriggeredBy string `json:"triggered_by"`
}

type ChangeDesignStatusRequest struct {
	From        domain.DesignStatus `json:"from"`
	To          domain.DesignStatus `json:"to"`
	TriggeredBy string              `json:"triggered_by"`
}

type ValidateTransitionRequest struct {
	From domain.DesignStatus `json:"from"`
	To   domain.DesignStatus `json:"to"`
}

type ValidateTransitionResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type OrderStatusResponse struct {
	OrderID string `json:"order_id"`
	models.WorkflowStatus
}

type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type DesignTransitionsResponse struct {
	Status  string         `json:"status"`
	Label   string         `json:"label"`
	Initial bool           `json:"initial"`
	Final   bool           `json:"final"`
	Next    []StatusOption `json:"next"`
}

type OrderFlowResponse struct {
	Status       string            `json:"status"`
	CustomerKind string            `json:"customer_kind"`
	HasDeposit   bool              `json:"has_deposit"`
	Steps        []domain.FlowStep `json:"steps"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toDesignTransitionsResponse(s domain.DesignStatus) DesignTransitionsResponse {
	next := domain.ValidNextStatuses(s)
	opts := make([]StatusOption, 0, len(next))
	for _, n := range next {
		opts = append(opts, StatusOption{Value: string(n), Label: n.Label()})
	}

	return DesignTransitionsResponse{
		Status:  string(s),
		Label:   s.Label(),
		Initial: domain.IsInitialStatus(s),
		Final:   domain.IsFinalStatus(s),
		Next:    opts,
	}
}
