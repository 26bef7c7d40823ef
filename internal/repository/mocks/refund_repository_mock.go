package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRefundRepository struct {
	mock.Mock
}

func NewMockRefundRepository(t *testing.T) *MockRefundRepository {
	m := &MockRefundRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRefundRepository) List(ctx context.Context, filter model.RefundFilter) ([]*model.RefundRecord, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.RefundRecord), args.Int(1), args.Error(2)
}

func (m *MockRefundRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRefundRepository) Create(ctx context.Context, tx pgx.Tx, refund *model.RefundRecord) (*model.RefundRecord, error) {
	args := m.Called(ctx, tx, refund)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundRecord), args.Error(1)
}

func (m *MockRefundRepository) Trend(ctx context.Context, start, end *time.Time) ([]*model.RefundTrendPoint, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RefundTrendPoint), args.Error(1)
}
