package mocks

import (
	"context"
	"io"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTicketSaleService struct {
	mock.Mock
}

func NewMockTicketSaleService(t *testing.T) *MockTicketSaleService {
	m := &MockTicketSaleService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTicketSaleService) List(ctx context.Context, filter model.TicketSaleFilter) (*model.PageResult[*model.TicketSaleRecord], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult[*model.TicketSaleRecord]), args.Error(1)
}

func (m *MockTicketSaleService) Create(ctx context.Context, req model.CreateTicketSaleRequest) (*model.TicketSaleRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketSaleRecord), args.Error(1)
}

func (m *MockTicketSaleService) Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error) {
	args := m.Called(ctx, groupBy, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SaleStat), args.Error(1)
}

func (m *MockTicketSaleService) Summary(ctx context.Context, filter model.TicketSaleFilter) (*model.SalesSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesSummary), args.Error(1)
}

// ExportCSV 將第一個回傳值(string)寫入 w
func (m *MockTicketSaleService) ExportCSV(ctx context.Context, filter model.TicketSaleFilter, w io.Writer) error {
	args := m.Called(ctx, filter, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(1)
}

func (m *MockTicketSaleService) RefundTrend(ctx context.Context, filter model.TicketSaleFilter) ([]*model.RefundTrendPoint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RefundTrendPoint), args.Error(1)
}
