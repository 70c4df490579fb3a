package domain

import "fmt"

type CustomerKind string

const (
	CustomerRetail  CustomerKind = "retail"
	CustomerCompany CustomerKind = "company"
)

func ParseCustomerKind(s string) (CustomerKind, error) {
	switch CustomerKind(s) {
	case CustomerRetail, CustomerCompany:
		return CustomerKind(s), nil
	default:
		return "", fmt.Errorf("unknown customer kind: %q", s)
	}
}

// FlowStep is one entry of an order's progress bar.
type FlowStep struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

const (
	StepReceive    = "pending"
	StepDesign     = "design"
	StepDeposited  = "deposited"
	StepProofing   = "proofing"
	StepProduction = "production"
	StepCompleted  = "completed"
	StepInvoice    = "invoice"
)

type statusSet map[OrderStatus]struct{}

func newStatusSet(statuses ...OrderStatus) statusSet {
	set := make(statusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func (s statusSet) has(st OrderStatus) bool {
	_, ok := s[st]
	return ok
}

// Each step answers "completed" and "active" on its own; nothing forces the
// answers to agree with the neighbouring steps.
var (
	receiveActive = newStatusSet(OrderPending, OrderNew)
	receiveDone   = newStatusSet(OrderDesigning, OrderWaitingForProofing, OrderWaitingApproval,
		OrderProofed, OrderConfirmed, OrderWaitingForProduction, OrderInProduction,
		OrderProductionCompleted, OrderCompleted, OrderInvoiceIssued)

	designActive = newStatusSet(OrderDesigning)
	designDone   = newStatusSet(OrderWaitingForProofing, OrderWaitingApproval, OrderProofed,
		OrderConfirmed, OrderWaitingForProduction, OrderInProduction,
		OrderProductionCompleted, OrderCompleted, OrderInvoiceIssued)

	depositActive = newStatusSet(OrderProofed, OrderConfirmed, OrderWaitingForProduction)

	proofingActive = newStatusSet(OrderWaitingForProofing, OrderWaitingApproval)
	proofingDone   = newStatusSet(OrderProofed, OrderConfirmed, OrderWaitingForProduction,
		OrderInProduction, OrderProductionCompleted, OrderCompleted, OrderInvoiceIssued)

	productionActive = newStatusSet(OrderWaitingForProduction, OrderInProduction)
	productionDone   = newStatusSet(OrderProductionCompleted, OrderCompleted, OrderInvoiceIssued)

	completedActive = newStatusSet(OrderProductionCompleted)
	completedDone   = newStatusSet(OrderCompleted, OrderInvoiceIssued)

	invoiceActive = newStatusSet(OrderCompleted)
	invoiceDone   = newStatusSet(OrderInvoiceIssued)
)

// ProjectOrderFlow derives the progress steps for an order.
//
// Retail customers get an extra deposited step between design and proofing;
// companies are invoiced without a deposit and never see it. The deposited step
// is completed iff hasDeposit, whatever the order status says.
//
// Inconsistent inputs (for example a retail order already waiting for
// production without a deposit) can yield more than one active step.
func ProjectOrderFlow(current OrderStatus, kind CustomerKind, hasDeposit bool) []FlowStep {
	steps := []FlowStep{
		{
			ID:        StepReceive,
			Label:     "Order received",
			Completed: receiveDone.has(current),
			Active:    receiveActive.has(current),
		},
		{
			ID:        StepDesign,
			Label:     "Design",
			Completed: designDone.has(current),
			Active:    designActive.has(current),
		},
	}

	if kind == CustomerRetail {
		steps = append(steps, FlowStep{
			ID:        StepDeposited,
			Label:     "Deposit received",
			Completed: hasDeposit,
			Active:    !hasDeposit && depositActive.has(current),
		})
	}

	steps = append(steps,
		FlowStep{
			ID:        StepProofing,
			Label:     "Proofing",
			Completed: proofingDone.has(current),
			Active:    proofingActive.has(current),
		},
		FlowStep{
			ID:        StepProduction,
			Label:     "Production",
			Completed: productionDone.has(current),
			Active:    productionActive.has(current),
		},
		FlowStep{
			ID:        StepCompleted,
			Label:     "Completed",
			Completed: completedDone.has(current),
			Active:    completedActive.has(current),
		},
		FlowStep{
			ID:        StepInvoice,
			Label:     "Invoice issued",
			Completed: invoiceDone.has(current),
			Active:    invoiceActive.has(current),
		},
	)

	return steps
}
