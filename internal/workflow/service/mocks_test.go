package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Append(ctx context.Context, ev *models.WorkflowEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *StoreMock) All(ctx context.Context) ([]*models.WorkflowEvent, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*models.WorkflowEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) ByOrder(ctx context.Context, orderID string) ([]*models.WorkflowEvent, error) {
	args := m.Called(ctx, orderID)
	if v := args.Get(0); v != nil {
		return v.([]*models.WorkflowEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) LatestByType(ctx context.Context, orderID string, eventType models.EventType) (*models.WorkflowEvent, error) {
	args := m.Called(ctx, orderID, eventType)
	if v := args.Get(0); v != nil {
		return v.(*models.WorkflowEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type OrdersMock struct {
	mock.Mock
}

func (m *OrdersMock) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type ProductionMock struct {
	mock.Mock
}

func (m *ProductionMock) CreateProductionTask(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type PaymentsMock struct {
	mock.Mock
}

func (m *PaymentsMock) CreatePaymentRecord(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
