package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPassengerRepository struct {
	mock.Mock
}

func NewMockPassengerRepository(t *testing.T) *MockPassengerRepository {
	m := &MockPassengerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPassengerRepository) ListByUser(ctx context.Context, userID int) ([]*model.SavedPassenger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerRepository) FindByIDs(ctx context.Context, userID int, ids []int) ([]*model.SavedPassenger, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerRepository) FindByID(ctx context.Context, userID, id int) (*model.SavedPassenger, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerRepository) Create(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error) {
	args := m.Called(ctx, passenger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerRepository) Update(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error) {
	args := m.Called(ctx, passenger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPassenger), args.Error(1)
}

func (m *MockPassengerRepository) Delete(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPassengerRepository) SetDefault(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPassengerRepository) ClearDefault(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}
