package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func NewMockOrderService(t *testing.T) *MockOrderService {
	m := &MockOrderService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderService) CreateOrder(ctx context.Context, principal model.Principal, req model.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) PayOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) RefundOrder(ctx context.Context, principal model.Principal, id int, req model.RefundOrderRequest) (*model.Order, *model.RefundRecord, error) {
	args := m.Called(ctx, principal, id, req)
	var (
		order  *model.Order
		refund *model.RefundRecord
	)
	if v := args.Get(0); v != nil {
		order = v.(*model.Order)
	}
	if v := args.Get(1); v != nil {
		refund = v.(*model.RefundRecord)
	}
	return order, refund, args.Error(2)
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, id int) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, principal model.Principal, filter model.OrderFilter) (*model.PageResult[*model.Order], error) {
	args := m.Called(ctx, principal, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult[*model.Order]), args.Error(1)
}

func (m *MockOrderService) ListRefunds(ctx context.Context, filter model.RefundFilter) (*model.PageResult[*model.RefundRecord], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult[*model.RefundRecord]), args.Error(1)
}
