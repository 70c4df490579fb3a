package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allDesignStatuses = []DesignStatus{
	DesignReceivedInfo,
	DesignDesigning,
	DesignEditing,
	DesignWaitingForCustomerApproval,
	DesignConfirmedForPrinting,
}

func TestIsValidStatusTransition_SameStatusAlwaysValid(t *testing.T) {
	for _, s := range allDesignStatuses {
		assert.True(t, IsValidStatusTransition(s, s), "no-op for %s", s)
	}
}

func TestIsValidStatusTransition_Table(t *testing.T) {
	cases := []struct {
		from, to DesignStatus
		want     bool
	}{
		{DesignReceivedInfo, DesignDesigning, true},
		{DesignDesigning, DesignWaitingForCustomerApproval, true},
		{DesignWaitingForCustomerApproval, DesignEditing, true},
		{DesignWaitingForCustomerApproval, DesignConfirmedForPrinting, true},
		{DesignEditing, DesignWaitingForCustomerApproval, true},

		{DesignReceivedInfo, DesignConfirmedForPrinting, false},
		{DesignReceivedInfo, DesignWaitingForCustomerApproval, false},
		{DesignDesigning, DesignConfirmedForPrinting, false},
		{DesignDesigning, DesignReceivedInfo, false},
		{DesignEditing, DesignConfirmedForPrinting, false},
		{DesignWaitingForCustomerApproval, DesignDesigning, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidStatusTransition(tc.from, tc.to))
		})
	}
}

func TestFinalStatusHasNoExit(t *testing.T) {
	for _, s := range allDesignStatuses {
		if s == DesignConfirmedForPrinting {
			continue
		}
		assert.False(t, IsValidStatusTransition(DesignConfirmedForPrinting, s), "terminal -> %s", s)
	}
	assert.Empty(t, ValidNextStatuses(DesignConfirmedForPrinting))
	assert.True(t, IsFinalStatus(DesignConfirmedForPrinting))
	assert.False(t, IsFinalStatus(DesignEditing))
	assert.False(t, IsFinalStatus(DesignStatus("bogus")))
}

func TestValidNextStatuses_BranchPoint(t *testing.T) {
	got := ValidNextStatuses(DesignWaitingForCustomerApproval)
	assert.ElementsMatch(t, []DesignStatus{DesignEditing, DesignConfirmedForPrinting}, got)
}

func TestValidNextStatuses_ReturnsCopy(t *testing.T) {
	got := ValidNextStatuses(DesignReceivedInfo)
	require.Len(t, got, 1)
	got[0] = DesignConfirmedForPrinting

	assert.Equal(t, []DesignStatus{DesignDesigning}, ValidNextStatuses(DesignReceivedInfo))
}

func TestIsInitialStatus(t *testing.T) {
	for _, s := range allDesignStatuses {
		assert.Equal(t, s == DesignReceivedInfo, IsInitialStatus(s), s)
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	t.Run("final status", func(t *testing.T) {
		msg := TransitionErrorMessage(DesignConfirmedForPrinting, DesignDesigning)
		assert.Contains(t, msg, "final")
		assert.Contains(t, msg, "Confirmed for printing")
	})

	t.Run("lists allowed next", func(t *testing.T) {
		msg := TransitionErrorMessage(DesignWaitingForCustomerApproval, DesignReceivedInfo)
		assert.Contains(t, msg, "Editing")
		assert.Contains(t, msg, "Confirmed for printing")
		assert.NotContains(t, msg, "final")
	})

	t.Run("unknown current", func(t *testing.T) {
		msg := TransitionErrorMessage("review", DesignDesigning)
		assert.Contains(t, msg, "Unknown")
	})
}

func TestValidateDesignTransition(t *testing.T) {
	require.NoError(t, ValidateDesignTransition(DesignReceivedInfo, DesignDesigning))
	require.NoError(t, ValidateDesignTransition(DesignEditing, DesignEditing))

	err := ValidateDesignTransition(DesignReceivedInfo, DesignConfirmedForPrinting)
	require.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, TransitionErrorMessage(DesignReceivedInfo, DesignConfirmedForPrinting), te.Error())
}
