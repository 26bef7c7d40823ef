package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTicketSearchService struct {
	mock.Mock
}

func NewMockTicketSearchService(t *testing.T) *MockTicketSearchService {
	m := &MockTicketSearchService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTicketSearchService) SearchTickets(ctx context.Context, params model.TicketSearchParams) ([]*model.TicketSearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketSearchResult), args.Error(1)
}

func (m *MockTicketSearchService) GetTicketDetail(ctx context.Context, trainID int, params model.TicketDetailParams) (*model.TicketDetail, error) {
	args := m.Called(ctx, trainID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketDetail), args.Error(1)
}
