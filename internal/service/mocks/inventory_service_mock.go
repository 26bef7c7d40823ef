package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func NewMockInventoryService(t *testing.T) *MockInventoryService {
	m := &MockInventoryService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInventoryService) Reserve(ctx context.Context, tx pgx.Tx, train *model.Train, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	args := m.Called(ctx, tx, train, key, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketInventory), args.Error(1)
}

func (m *MockInventoryService) Replenish(ctx context.Context, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	args := m.Called(ctx, key, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketInventory), args.Error(1)
}

func (m *MockInventoryService) Available(ctx context.Context, train *model.Train, key model.InventoryKey) (int, error) {
	args := m.Called(ctx, train, key)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error) {
	args := m.Called(ctx, trainID, travelDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketInventory), args.Error(1)
}
