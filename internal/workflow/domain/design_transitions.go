package domain

import (
	"fmt"
	"strings"
)

// designTransitions is the only source of truth for design status changes.
// waiting_for_customer_approval is the single branch point: the customer either
// asks for changes (editing) or approves (confirmed_for_printing).
var designTransitions = map[DesignStatus][]DesignStatus{
	DesignReceivedInfo:               {DesignDesigning},
	DesignDesigning:                  {DesignWaitingForCustomerApproval},
	DesignWaitingForCustomerApproval: {DesignEditing, DesignConfirmedForPrinting},
	DesignEditing:                    {DesignWaitingForCustomerApproval},
	DesignConfirmedForPrinting:       {},
}

// ValidNextStatuses returns the statuses reachable from current in one step.
// The result is empty for the terminal status and for unknown statuses.
func ValidNextStatuses(current DesignStatus) []DesignStatus {
	next := designTransitions[current]
	out := make([]DesignStatus, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to DesignStatus) bool {
	for _, s := range designTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatusTransition treats staying on the same status as always legal.
func IsValidStatusTransition(current, proposed DesignStatus) bool {
	if current == proposed {
		return true
	}
	return CanTransition(current, proposed)
}

func IsInitialStatus(s DesignStatus) bool {
	return s == DesignReceivedInfo
}

func IsFinalStatus(s DesignStatus) bool {
	next, ok := designTransitions[s]
	return ok && len(next) == 0
}

// TransitionErrorMessage explains why current -> attempted is rejected.
// Callers show it to the requester verbatim.
func TransitionErrorMessage(current, attempted DesignStatus) string {
	if !current.IsKnown() {
		return fmt.Sprintf("Unknown design status %q", string(current))
	}
	if IsFinalStatus(current) {
		return fmt.Sprintf("Design status %q is final and cannot be changed to %q",
			current.Label(), attempted.Label())
	}

	next := designTransitions[current]
	labels := make([]string, 0, len(next))
	for _, s := range next {
		labels = append(labels, fmt.Sprintf("%q", s.Label()))
	}
	return fmt.Sprintf("Cannot change design status from %q to %q. Allowed next status: %s",
		current.Label(), attempted.Label(), strings.Join(labels, " or "))
}

// ValidateDesignTransition returns a *TransitionError when the change is not allowed.
func ValidateDesignTransition(from, to DesignStatus) error {
	if IsValidStatusTransition(from, to) {
		return nil
	}
	return &TransitionError{
		From:    from,
		To:      to,
		Message: TransitionErrorMessage(from, to),
	}
}
