package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTicketSaleRepository struct {
	mock.Mock
}

func NewMockTicketSaleRepository(t *testing.T) *MockTicketSaleRepository {
	m := &MockTicketSaleRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTicketSaleRepository) Create(ctx context.Context, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketSaleRecord), args.Error(1)
}

func (m *MockTicketSaleRepository) CreateTx(ctx context.Context, tx pgx.Tx, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketSaleRecord), args.Error(1)
}

func (m *MockTicketSaleRepository) FindFirstByOrderID(ctx context.Context, orderID int) (*model.TicketSaleRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketSaleRecord), args.Error(1)
}

func (m *MockTicketSaleRepository) List(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.TicketSaleRecord), args.Int(1), args.Error(2)
}

func (m *MockTicketSaleRepository) ListAll(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketSaleRecord), args.Error(1)
}

func (m *MockTicketSaleRepository) Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error) {
	args := m.Called(ctx, groupBy, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SaleStat), args.Error(1)
}

func (m *MockTicketSaleRepository) SumAmount(ctx context.Context, filter model.TicketSaleFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
