package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTrainRepository struct {
	mock.Mock
}

func NewMockTrainRepository(t *testing.T) *MockTrainRepository {
	m := &MockTrainRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTrainRepository) Create(ctx context.Context, train *model.Train) (*model.Train, error) {
	args := m.Called(ctx, train)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainRepository) List(ctx context.Context, filter model.TrainFilter) ([]*model.Train, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Train), args.Int(1), args.Error(2)
}

func (m *MockTrainRepository) FindByID(ctx context.Context, id int) (*model.Train, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainRepository) FindActiveByIDs(ctx context.Context, ids []int, trainNumber string) ([]*model.Train, error) {
	args := m.Called(ctx, ids, trainNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Train), args.Error(1)
}

func (m *MockTrainRepository) SearchByStations(ctx context.Context, departure, arrival, trainNumber string) ([]*model.Train, error) {
	args := m.Called(ctx, departure, arrival, trainNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Train), args.Error(1)
}

func (m *MockTrainRepository) Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Train), args.Error(1)
}

func (m *MockTrainRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
