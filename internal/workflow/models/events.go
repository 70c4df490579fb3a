package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

type EventType string

const (
	OrderStatusChange      EventType = "order_status_change"
	DesignStatusChange     EventType = "design_status_change"
	ProductionStatusChange EventType = "production_status_change"
	PaymentStatusChange    EventType = "payment_status_change"
)

// Module is the owner of a status that workflow rules propagate between.
type Module string

const (
	ModuleOrders     Module = "orders"
	ModuleDesign     Module = "design"
	ModuleProduction Module = "production"
	ModuleAccounting Module = "accounting"
)

func (t EventType) IsValid() bool {
	switch t {
	case OrderStatusChange, DesignStatusChange, ProductionStatusChange, PaymentStatusChange:
		return true
	default:
		return false
	}
}

// Module returns the module whose status this event type reports.
func (t EventType) Module() Module {
	switch t {
	case OrderStatusChange:
		return ModuleOrders
	case DesignStatusChange:
		return ModuleDesign
	case ProductionStatusChange:
		return ModuleProduction
	case PaymentStatusChange:
		return ModuleAccounting
	default:
		return ""
	}
}

func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// WorkflowEvent records one completed status change of some module for an order.
// It is immutable: the log only ever holds the order id and status strings.
type WorkflowEvent struct {
	eventID     uuid.UUID
	eventType   EventType
	orderID     string
	oldStatus   string
	newStatus   string
	occurredAt  time.Time
	triggeredBy string
}

func NewWorkflowEvent(eventType EventType, orderID, oldStatus, newStatus, triggeredBy string) *WorkflowEvent {
	return RestoreWorkflowEvent(uuid.New(), eventType, orderID, oldStatus, newStatus, time.Now(), triggeredBy)
}

// RestoreWorkflowEvent rebuilds an event with a known id and timestamp,
// e.g. when reading it back from storage.
func RestoreWorkflowEvent(id uuid.UUID, eventType EventType, orderID, oldStatus, newStatus string,
	occurredAt time.Time, triggeredBy string) *WorkflowEvent {
	return &WorkflowEvent{
		eventID:     id,
		eventType:   eventType,
		orderID:     orderID,
		oldStatus:   oldStatus,
		newStatus:   newStatus,
		occurredAt:  occurredAt,
		triggeredBy: triggeredBy,
	}
}

// DomainEvent
func (e *WorkflowEvent) EventID() uuid.UUID    { return e.eventID }
func (e *WorkflowEvent) EventType() string     { return string(e.eventType) }
func (e *WorkflowEvent) AggregateID() string   { return e.orderID }
func (e *WorkflowEvent) OccurredAt() time.Time { return e.occurredAt }

func (e *WorkflowEvent) Type() EventType     { return e.eventType }
func (e *WorkflowEvent) OrderID() string     { return e.orderID }
func (e *WorkflowEvent) OldStatus() string   { return e.oldStatus }
func (e *WorkflowEvent) NewStatus() string   { return e.newStatus }
func (e *WorkflowEvent) TriggeredBy() string { return e.triggeredBy }

func (e *WorkflowEvent) String() string {
	return fmt.Sprintf("%s[%s] %s -> %s", e.eventType, e.orderID, e.oldStatus, e.newStatus)
}

type workflowEventJSON struct {
	EventID     uuid.UUID `json:"event_id"`
	Type        EventType `json:"type"`
	OrderID     string    `json:"order_id"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	Timestamp   time.Time `json:"timestamp"`
	TriggeredBy string    `json:"triggered_by,omitempty"`
}

func (e *WorkflowEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(workflowEventJSON{
		EventID:     e.eventID,
		Type:        e.eventType,
		OrderID:     e.orderID,
		OldStatus:   e.oldStatus,
		NewStatus:   e.newStatus,
		Timestamp:   e.occurredAt,
		TriggeredBy: e.triggeredBy,
	})
}

// DecodeWorkflowEvent builds a new event from its JSON form.
func DecodeWorkflowEvent(data []byte) (*WorkflowEvent, error) {
	var v workflowEventJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode workflow event: %w", err)
	}
	return RestoreWorkflowEvent(v.EventID, v.Type, v.OrderID, v.OldStatus, v.NewStatus, v.Timestamp, v.TriggeredBy), nil
}

// UnmarshalJSON only fills a zero value. An event that already has an id is
// never overwritten.
func (e *WorkflowEvent) UnmarshalJSON(data []byte) error {
	if e.eventID != uuid.Nil {
		return fmt.Errorf("%w: event %s is already set", ErrConflict, e.eventID)
	}
	ev, err := DecodeWorkflowEvent(data)
	if err != nil {
		return err
	}
	*e = *ev
	return nil
}
