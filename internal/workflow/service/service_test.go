package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
	"github.com/romariotrain/printshop-workflow/internal/workflow/repository"
)

func newTestService(t *testing.T, collab Collaborators) *Service {
	t.Helper()
	svc, err := New(Config{
		Store:         repository.NewMemoryEventStore(),
		Collaborators: collab,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func TestNew_RegistersDefaultRulesInOrder(t *testing.T) {
	svc := newTestService(t, Collaborators{})

	var names []string
	for _, r := range svc.Engine().Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		RuleOrderConfirmedToProduction,
		RuleProductionCompletedToOrder,
		RuleOrderCompletedToAccounting,
		RuleDesignApprovedToOrder,
	}, names)
}

func TestNew_WithoutDefaultRules(t *testing.T) {
	svc, err := New(Config{Store: repository.NewMemoryEventStore(), WithoutDefaultRules: true})
	require.NoError(t, err)
	assert.Empty(t, svc.Engine().Rules())
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestWorkflowStatus_Defaults(t *testing.T) {
	svc := newTestService(t, Collaborators{})

	st, err := svc.WorkflowStatus(context.Background(), "unknown-order")
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatus{
		Order:      "pending",
		Design:     "not_started",
		Production: "not_started",
		Payment:    "not_started",
	}, st)
}

func TestDesignApproved_CascadesToOrderAndProduction(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	before, err := svc.EventHistory(ctx)
	require.NoError(t, err)

	ev := models.RestoreWorkflowEvent(uuid.New(), models.DesignStatusChange, "O1", "review", "approved",
		time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), "")
	require.NoError(t, svc.ProcessEvent(ctx, ev))

	after, err := svc.EventHistory(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(after)-len(before), 2)

	var types []models.EventType
	for _, e := range after {
		types = append(types, e.Type())
	}
	assert.Equal(t, []models.EventType{
		models.DesignStatusChange,
		models.OrderStatusChange,
		models.ProductionStatusChange,
	}, types)

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", st.Order)
	assert.Equal(t, "approved", st.Design)
	assert.Equal(t, "pending", st.Production)
	assert.Equal(t, "not_started", st.Payment)

	order := after[1]
	assert.Equal(t, "pending", order.OldStatus())
	assert.Equal(t, SystemActor, order.TriggeredBy())
	assert.Equal(t, "not_started", after[2].OldStatus())
}

func TestWorkflowStatus_IsAPureRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})
	require.NoError(t, svc.TriggerStatusChange(ctx, models.OrderStatusChange, "O1", "pending", "confirmed", "clerk"))

	first, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	second, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	events, err := svc.EventsByOrder(ctx, "O1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestProductionCompleted_UpdatesOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	require.NoError(t, svc.TriggerStatusChange(ctx, models.OrderStatusChange, "O1", "pending", "in_production", "clerk"))
	require.NoError(t, svc.TriggerStatusChange(ctx, models.ProductionStatusChange, "O1", "in_progress", "completed", "press-2"))

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "production_completed", st.Order)
	assert.Equal(t, "completed", st.Production)

	events, err := svc.EventsByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "in_production", events[2].OldStatus())
}

func TestOrderCompleted_CreatesPaymentRecord(t *testing.T) {
	ctx := context.Background()
	payments := new(PaymentsMock)
	payments.On("CreatePaymentRecord", mock.Anything, "O1").Return(nil).Once()
	svc := newTestService(t, Collaborators{Payments: payments})

	require.NoError(t, svc.TriggerStatusChange(ctx, models.OrderStatusChange, "O1", "production_completed", "completed", "clerk"))

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Order)
	assert.Equal(t, "pending", st.Payment)
	payments.AssertExpectations(t)
}

func TestCollaboratorsAreCalledAlongTheCascade(t *testing.T) {
	ctx := context.Background()
	orders := new(OrdersMock)
	production := new(ProductionMock)
	orders.On("UpdateOrderStatus", mock.Anything, "O7", domain.OrderConfirmed).Return(nil).Once()
	production.On("CreateProductionTask", mock.Anything, "O7").Return(nil).Once()

	svc := newTestService(t, Collaborators{Orders: orders, Production: production})
	require.NoError(t, svc.TriggerStatusChange(ctx, models.DesignStatusChange, "O7", "waiting_for_customer_approval", "confirmed_for_printing", "customer"))

	orders.AssertExpectations(t)
	production.AssertExpectations(t)
}

func TestCollaboratorFailure_IsSwallowedAndStopsThatBranch(t *testing.T) {
	ctx := context.Background()
	orders := new(OrdersMock)
	production := new(ProductionMock)
	orders.On("UpdateOrderStatus", mock.Anything, "O1", domain.OrderConfirmed).Return(errors.New("orders api 503")).Once()

	svc := newTestService(t, Collaborators{Orders: orders, Production: production})

	err := svc.TriggerStatusChange(ctx, models.DesignStatusChange, "O1", "review", "approved", "")
	require.NoError(t, err)

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "approved", st.Design)
	assert.Equal(t, "pending", st.Order)
	assert.Equal(t, "not_started", st.Production)

	assert.Equal(t, int64(1), svc.Engine().Stats().ActionsFailed)
	production.AssertNotCalled(t, "CreateProductionTask", mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}

func TestTriggerStatusChange_InvalidArguments(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		eventType models.EventType
		orderID   string
		newStatus string
	}{
		{name: "unknown type", eventType: "shipping_status_change", orderID: "O1", newStatus: "x"},
		{name: "empty order", eventType: models.OrderStatusChange, orderID: "", newStatus: "x"},
		{name: "empty status", eventType: models.OrderStatusChange, orderID: "O1", newStatus: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := new(StoreMock)
			svc, err := New(Config{Store: st, Logger: zerolog.Nop()})
			require.NoError(t, err)

			err = svc.TriggerStatusChange(ctx, tc.eventType, tc.orderID, "", tc.newStatus, "")
			require.ErrorIs(t, err, models.ErrInvalidArgument)
			st.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestTriggerStatusChange_UsesClockAndIDGen(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	fixedID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedTime := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.idGen = func() uuid.UUID { return fixedID }
	svc.clock = func() time.Time { return fixedTime }

	require.NoError(t, svc.TriggerStatusChange(ctx, models.PaymentStatusChange, "O1", "pending", "partially_paid", "cashier"))

	events, err := svc.EventsByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixedID, events[0].EventID())
	assert.Equal(t, fixedTime, events[0].OccurredAt())
	assert.Equal(t, "cashier", events[0].TriggeredBy())
}

func TestChangeDesignStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid step is recorded", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", domain.DesignReceivedInfo, domain.DesignDesigning, "designer"))

		st, err := svc.WorkflowStatus(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, "designing", st.Design)
		assert.Equal(t, "pending", st.Order)
	})

	t.Run("skip ahead is rejected with explanation", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		err := svc.ChangeDesignStatus(ctx, "O1", domain.DesignReceivedInfo, domain.DesignConfirmedForPrinting, "designer")
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.TransitionErrorMessage(domain.DesignReceivedInfo, domain.DesignConfirmedForPrinting), err.Error())

		events, err := svc.EventHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("final status is rejected", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		err := svc.ChangeDesignStatus(ctx, "O1", domain.DesignConfirmedForPrinting, domain.DesignDesigning, "designer")
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "final")
	})

	t.Run("same status records nothing", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", domain.DesignEditing, domain.DesignEditing, "designer"))

		events, err := svc.EventHistory(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("from must match the recorded status", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", domain.DesignReceivedInfo, domain.DesignDesigning, "designer"))

		err := svc.ChangeDesignStatus(ctx, "O1", domain.DesignWaitingForCustomerApproval, domain.DesignConfirmedForPrinting, "customer")
		require.ErrorIs(t, err, models.ErrConflict)

		st, err := svc.WorkflowStatus(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, "designing", st.Design)
		assert.Equal(t, "pending", st.Order)
		assert.Equal(t, "not_started", st.Production)
	})

	t.Run("terminal status cannot be left with a stale from", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", domain.DesignWaitingForCustomerApproval, domain.DesignConfirmedForPrinting, "customer"))

		err := svc.ChangeDesignStatus(ctx, "O1", domain.DesignEditing, domain.DesignWaitingForCustomerApproval, "designer")
		require.ErrorIs(t, err, models.ErrConflict)

		err = svc.ChangeDesignStatus(ctx, "O1", domain.DesignConfirmedForPrinting, domain.DesignEditing, "designer")
		require.ErrorIs(t, err, domain.ErrInvalidTransition)

		st, err := svc.WorkflowStatus(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, "confirmed_for_printing", st.Design)
	})

	t.Run("walks the whole state machine", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		steps := []domain.DesignStatus{
			domain.DesignReceivedInfo,
			domain.DesignDesigning,
			domain.DesignWaitingForCustomerApproval,
			domain.DesignEditing,
			domain.DesignWaitingForCustomerApproval,
			domain.DesignConfirmedForPrinting,
		}
		for i := 1; i < len(steps); i++ {
			require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", steps[i-1], steps[i], "designer"))
		}

		st, err := svc.WorkflowStatus(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, "confirmed_for_printing", st.Design)
		assert.Equal(t, "confirmed", st.Order)
	})

	t.Run("customer approval cascades", func(t *testing.T) {
		svc := newTestService(t, Collaborators{})
		require.NoError(t, svc.ChangeDesignStatus(ctx, "O1", domain.DesignWaitingForCustomerApproval, domain.DesignConfirmedForPrinting, "customer"))

		st, err := svc.WorkflowStatus(ctx, "O1")
		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatus{
			Order:      "confirmed",
			Design:     "confirmed_for_printing",
			Production: "pending",
			Payment:    "not_started",
		}, st)
	})
}

func TestWorkflowStatus_InconsistentHistoryIsReportedAsIs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	require.NoError(t, svc.TriggerStatusChange(ctx, models.PaymentStatusChange, "O1", "pending", "completed", ""))

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Payment)
	assert.Equal(t, "pending", st.Order)
}

func TestWorkflowStatus_StoreErrorPropagated(t *testing.T) {
	st := new(StoreMock)
	svc, err := New(Config{Store: st, Logger: zerolog.Nop()})
	require.NoError(t, err)

	boom := errors.New("db down")
	st.On("ByOrder", mock.Anything, "O1").Return(nil, boom).Once()

	_, err = svc.WorkflowStatus(context.Background(), "O1")
	require.ErrorIs(t, err, boom)
	st.AssertExpectations(t)
}

func TestProjectOrderFlow(t *testing.T) {
	svc := newTestService(t, Collaborators{})

	steps, err := svc.ProjectOrderFlow("pending", "company", false)
	require.NoError(t, err)
	assert.Len(t, steps, 6)

	_, err = svc.ProjectOrderFlow("pending", "government", false)
	require.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestAddRule_CustomRuleParticipatesInCascade(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	// invoice issued as soon as payment is completed
	require.NoError(t, svc.AddRule(Rule{
		Name:      "payment_completed_to_order",
		From:      models.ModuleAccounting,
		To:        models.ModuleOrders,
		Condition: statusBecomes(models.PaymentStatusChange, string(domain.PaymentCompleted)),
		Action: func(ctx context.Context, ev *models.WorkflowEvent) error {
			return svc.TriggerStatusChange(ctx, models.OrderStatusChange, ev.OrderID(), "completed", "invoice_issued", SystemActor)
		},
	}))

	require.NoError(t, svc.TriggerStatusChange(ctx, models.PaymentStatusChange, "O1", "pending", "completed", "cashier"))

	st, err := svc.WorkflowStatus(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "invoice_issued", st.Order)
}

func TestRecordStatusChange_ReturnsTheRecordedEvent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Collaborators{})

	fixedID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	svc.idGen = func() uuid.UUID { return fixedID }

	ev, err := svc.RecordStatusChange(ctx, models.OrderStatusChange, "O1", "pending", "cancelled", "clerk")
	require.NoError(t, err)
	assert.Equal(t, fixedID, ev.EventID())
	assert.Equal(t, "cancelled", ev.NewStatus())

	_, err = svc.RecordStatusChange(ctx, "shipping_status_change", "O1", "", "x", "")
	require.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "unknown event type")
}
