package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPassengerService struct {
	mock.Mock
}

func NewMockPassengerService(t *testing.T) *MockPassengerService {
	m := &MockPassengerService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPassengerService) List(ctx context.Context, principal model.Principal) ([]*model.SavedPassenger, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerService) Create(ctx context.Context, principal model.Principal, req model.CreatePassengerRequest) (*model.SavedPassenger, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerService) Update(ctx context.Context, principal model.Principal, id int, req model.UpdatePassengerRequest) (*model.SavedPassenger, error) {
	args := m.Called(ctx, principal, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerService) Delete(ctx context.Context, principal model.Principal, id int) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockPassengerService) SetDefault(ctx context.Context, principal model.Principal, id int) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *MockPassengerService) ClearDefault(ctx context.Context, principal model.Principal) error {
	return m.Called(ctx, principal).Error(0)
}
