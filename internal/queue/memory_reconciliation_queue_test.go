package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan queue.Delivery) queue.Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "channel closed")
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timeout 未收到訊息")
	}
	return queue.Delivery{}
}

func TestMemoryReconciliationQueue_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryReconciliationQueue(4)
	event := &model.ReconciliationEvent{Kind: model.ReconcileReplenish, OrderID: 3, TicketCount: 2}
	require.NoError(t, q.Publish(ctx, event))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ch)
	assert.Same(t, event, d.Data)
	d.Ack()
}

func TestMemoryReconciliationQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryReconciliationQueue(4)
	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, &model.ReconciliationEvent{OrderID: 1}))

	first := receive(t, ch)
	assert.Equal(t, 1, first.Attempt)
	first.Nack(true)

	again := receive(t, ch)
	assert.Equal(t, 1, again.Data.OrderID)
	assert.Equal(t, 2, again.Attempt)
	again.Nack(false)

	select {
	case d := <-ch:
		t.Fatalf("Nack(false) 後不應再投遞: %+v", d.Data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryReconciliationQueue_PublishWhenFull(t *testing.T) {
	q := queue.NewMemoryReconciliationQueue(1)
	require.NoError(t, q.Publish(context.Background(), &model.ReconciliationEvent{}))

	// buffer 已滿，且 ctx 永遠不會結束
	done := make(chan error, 1)
	go func() {
		done <- q.Publish(context.WithoutCancel(context.Background()), &model.ReconciliationEvent{})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, queue.ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("Publish 被阻塞")
	}
}

func TestMemoryReconciliationQueue_PublishCancelledContext(t *testing.T) {
	q := queue.NewMemoryReconciliationQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Publish(ctx, &model.ReconciliationEvent{}), context.Canceled)
}

func TestMemoryReconciliationQueue_SubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := queue.NewMemoryReconciliationQueue(1)

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel 未關閉")
	}
}
