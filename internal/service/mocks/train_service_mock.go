package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTrainService struct {
	mock.Mock
}

func NewMockTrainService(t *testing.T) *MockTrainService {
	m := &MockTrainService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTrainService) List(ctx context.Context, filter model.TrainFilter) (*model.PageResult[*model.Train], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult[*model.Train]), args.Error(1)
}

func (m *MockTrainService) Get(ctx context.Context, id int) (*model.Train, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainService) Create(ctx context.Context, req model.CreateTrainRequest) (*model.Train, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainService) Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTrainService) ListStops(ctx context.Context, trainID int) ([]*model.TrainStop, error) {
	args := m.Called(ctx, trainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrainStop), args.Error(1)
}

func (m *MockTrainService) SaveStops(ctx context.Context, trainID int, stops []model.TrainStopInput) ([]*model.TrainStop, error) {
	args := m.Called(ctx, trainID, stops)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TrainStop), args.Error(1)
}
