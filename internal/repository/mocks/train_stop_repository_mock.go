package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockTrainStopRepository struct {
	mock.Mock
}

func NewMockTrainStopRepository(t *testing.T) *MockTrainStopRepository {
	m := &MockTrainStopRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTrainStopRepository) ListByTrainID(ctx context.Context, trainID int) ([]*model.TrainStop, error) {
	args := m.Called(ctx, trainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrainStop), args.Error(1)
}

func (m *MockTrainStopRepository) FindByStationLike(ctx context.Context, station string) ([]*model.TrainStop, error) {
	args := m.Called(ctx, station)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrainStop), args.Error(1)
}

func (m *MockTrainStopRepository) ReplaceForTrain(ctx context.Context, tx pgx.Tx, trainID int, stops []*model.TrainStop) error {
	args := m.Called(ctx, tx, trainID, stops)
	return args.Error(0)
}
