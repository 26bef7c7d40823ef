package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct {
	mock.Mock
}

func NewMockInventoryRepository(t *testing.T) *MockInventoryRepository {
	m := &MockInventoryRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInventoryRepository) FindByKey(ctx context.Context, key model.InventoryKey) (*model.TicketInventory, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketInventory), args.Error(1)
}

func (m *MockInventoryRepository) ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error) {
	args := m.Called(ctx, trainID, travelDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketInventory), args.Error(1)
}

func (m *MockInventoryRepository) EnsureRow(ctx context.Context, tx pgx.Tx, key model.InventoryKey, totalSeats int) error {
	args := m.Called(ctx, tx, key, totalSeats)
	return args.Error(0)
}

func (m *MockInventoryRepository) IncrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	args := m.Called(ctx, tx, key, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketInventory), args.Error(1)
}

func (m *MockInventoryRepository) DecrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	args := m.Called(ctx, tx, key, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketInventory), args.Error(1)
}
