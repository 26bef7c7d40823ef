package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/queue"
	"github.com/Objecteee/ticket-on-line/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStream(t *testing.T) *redis.Client {
	t.Helper()
	rdb := testutil.SetupRedisOnly(t)
	require.NoError(t, rdb.Del(context.Background(), queue.StreamKey, queue.DeadLetterStreamKey).Err())
	return rdb
}

func sampleEvent(orderID int) *model.ReconciliationEvent {
	orderIDCopy := orderID
	return &model.ReconciliationEvent{
		Kind:        model.ReconcileSaleReverse,
		OrderID:     orderID,
		TrainID:     7,
		TravelDate:  time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		SeatClass:   model.SeatClassSecond,
		TicketCount: 2,
		Sale: &model.TicketSaleRecord{
			TrainNumber:  "G7",
			Destination:  "上海虹桥",
			SeatClass:    model.SeatClassSecond,
			TicketCount:  -2,
			ActualAmount: decimal.RequireFromString("-190.00"),
			OrderID:      &orderIDCopy,
		},
		Cause: "timeout",
	}
}

func TestNewRedisStreamReconciliationQueue(t *testing.T) {
	rdb := setupStream(t)

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "", nil)
	require.NoError(t, err)
	require.NotNil(t, q)

	// consumer group 已存在時不應失敗
	_, err = queue.NewRedisStreamReconciliationQueue(rdb, "second", nil)
	require.NoError(t, err)
}

func TestRedisStreamReconciliationQueue_Subscribe_deliversPublishedEvent(t *testing.T) {
	rdb := setupStream(t)
	ctx := context.Background()

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "deliver-test", nil)
	require.NoError(t, err)

	event := sampleEvent(31)
	require.NoError(t, q.Publish(ctx, event))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	d := receive(t, ch)
	require.NotNil(t, d.Data)
	assert.Equal(t, 1, d.Attempt)
	assert.Equal(t, event.Kind, d.Data.Kind)
	assert.Equal(t, event.OrderID, d.Data.OrderID)
	assert.True(t, event.TravelDate.Equal(d.Data.TravelDate))
	require.NotNil(t, d.Data.Sale)
	assert.True(t, d.Data.Sale.ActualAmount.Equal(event.Sale.ActualAmount))
	assert.Equal(t, -2, d.Data.Sale.TicketCount)
	d.Ack()
}

func TestRedisStreamReconciliationQueue_NackRequeue_redeliversAfterIdle(t *testing.T) {
	rdb := setupStream(t)
	ctx := context.Background()

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "requeue-test", &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 300 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, sampleEvent(32)))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	first := receive(t, ch)
	assert.Equal(t, 1, first.Attempt)
	first.Nack(true)

	again := receive(t, ch)
	assert.Equal(t, 32, again.Data.OrderID)
	assert.Equal(t, 2, again.Attempt)
	again.Ack()
}

func TestRedisStreamReconciliationQueue_NackDiscard_preventsRedelivery(t *testing.T) {
	rdb := setupStream(t)
	ctx := context.Background()

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "discard-test", &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 300 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, sampleEvent(33)))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	receive(t, ch).Nack(false)

	select {
	case d, ok := <-ch:
		if ok && d.Data != nil && d.Data.OrderID == 33 {
			t.Fatal("Nack(false) 後不應再投遞同一筆")
		}
	case <-time.After(time.Second):
	}

	dead, err := rdb.XRange(ctx, queue.DeadLetterStreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "rejected by consumer", dead[0].Values["reason"])
	assert.Equal(t, "33", dead[0].Values["order_id"])
}

func TestRedisStreamReconciliationQueue_Publish_storesKindAndOrder(t *testing.T) {
	rdb := setupStream(t)
	ctx := context.Background()

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "fields-test", nil)
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, sampleEvent(34)))

	msgs, err := rdb.XRange(ctx, queue.StreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, string(model.ReconcileSaleReverse), msgs[0].Values["kind"])
	assert.Equal(t, "34", msgs[0].Values["order_id"])
	assert.NotEmpty(t, msgs[0].Values["event"])
}

func TestRedisStreamReconciliationQueue_RetriesExhausted_movesToDeadLetter(t *testing.T) {
	rdb := setupStream(t)
	ctx := context.Background()

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, "dead-letter-test", &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 300 * time.Millisecond,
		MaxRetryCount:      1,
	})
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, sampleEvent(35)))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	// 首次投遞 + 1 次重試
	receive(t, ch).Nack(true)
	retry := receive(t, ch)
	assert.Equal(t, 2, retry.Attempt)
	retry.Nack(true)

	require.Eventually(t, func() bool {
		n, err := rdb.XLen(ctx, queue.DeadLetterStreamKey).Result()
		return err == nil && n == 1
	}, 3*time.Second, 50*time.Millisecond)

	dead, err := rdb.XRange(ctx, queue.DeadLetterStreamKey, "-", "+").Result()
	require.NoError(t, err)
	assert.Equal(t, "retries exhausted", dead[0].Values["reason"])
	assert.Equal(t, "35", dead[0].Values["order_id"])
	assert.Equal(t, "3", dead[0].Values["attempts"])

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}
