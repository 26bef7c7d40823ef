// Package mocks 提供 queue 介面的 testify mock
package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/queue"

	"github.com/stretchr/testify/mock"
)

var _ queue.ReconciliationQueue = (*MockReconciliationQueue)(nil)

type MockReconciliationQueue struct {
	mock.Mock
}

func NewMockReconciliationQueue(t *testing.T) *MockReconciliationQueue {
	m := &MockReconciliationQueue{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockReconciliationQueue) Publish(ctx context.Context, event *model.ReconciliationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReconciliationQueue) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
