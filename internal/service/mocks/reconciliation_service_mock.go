package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockReconciliationService struct {
	mock.Mock
}

func NewMockReconciliationService(t *testing.T) *MockReconciliationService {
	m := &MockReconciliationService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockReconciliationService) Handle(ctx context.Context, event *model.ReconciliationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
