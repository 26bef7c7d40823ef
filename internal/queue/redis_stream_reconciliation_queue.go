package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey           = "reconciliation:stream"
	DeadLetterStreamKey = "reconciliation:dead"
	ConsumerGroupName   = "reconciliation-workers"
	ConsumerNamePrefix  = "worker"

	// stream 欄位：kind / order_id 與 payload 分開存，XRANGE 時不必解 JSON 也能看出是哪筆訂單
	fieldKind     = "kind"
	fieldOrderID  = "order_id"
	fieldEvent    = "event"
	fieldReason   = "reason"
	fieldAttempts = "attempts"
	fieldSourceID = "source_id"

	readBatchSize    = 10
	readErrorBackoff = time.Second
)

// RedisStreamQueueConfig 零值欄位使用預設值
type RedisStreamQueueConfig struct {
	ClaimMinIdleTime   time.Duration // Nack(true) 後至少閒置這麼久才會被重新領取
	MaxRetryCount      int           // 重新投遞上限，超過後移入 dead-letter stream
	ReadGroupBlockTime time.Duration
	StreamMaxLen       int64 // XADD MAXLEN ~
}

func defaultRedisStreamConfig() RedisStreamQueueConfig {
	return RedisStreamQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		StreamMaxLen:       10000,
	}
}

func (c *RedisStreamQueueConfig) merge(override *RedisStreamQueueConfig) {
	if override == nil {
		return
	}
	if override.ClaimMinIdleTime > 0 {
		c.ClaimMinIdleTime = override.ClaimMinIdleTime
	}
	if override.MaxRetryCount > 0 {
		c.MaxRetryCount = override.MaxRetryCount
	}
	if override.ReadGroupBlockTime > 0 {
		c.ReadGroupBlockTime = override.ReadGroupBlockTime
	}
	if override.StreamMaxLen > 0 {
		c.StreamMaxLen = override.StreamMaxLen
	}
}

// RedisStreamReconciliationQueue 以 consumer group 分派補償事件。
// 未 Ack 的事件留在 PEL，閒置超過 ClaimMinIdleTime 後由 XAUTOCLAIM 領回重試；
// 重試用盡或無法解析的事件搬到 DeadLetterStreamKey 等人工處理，不會直接丟掉。
type RedisStreamReconciliationQueue struct {
	client       *redis.Client
	streamKey    string
	deadKey      string
	groupName    string
	consumerName string
	cfg          RedisStreamQueueConfig
	log          *zap.Logger
}

func NewRedisStreamReconciliationQueue(client *redis.Client, consumerID string, config *RedisStreamQueueConfig) (ReconciliationQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	cfg.merge(config)

	q := &RedisStreamReconciliationQueue{
		client:       client,
		streamKey:    StreamKey,
		deadKey:      DeadLetterStreamKey,
		groupName:    ConsumerGroupName,
		consumerName: ConsumerNamePrefix + ":" + consumerID,
		cfg:          cfg,
		log:          logger.WithComponent("mq"),
	}

	err := client.XGroupCreateMkStream(context.Background(), q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

// streamMessage stream 上的一筆補償事件；attempts 為含本次在內的投遞次數，0 表示查不到
type streamMessage struct {
	id       string
	kind     string
	orderID  string
	payload  string
	attempts int
}

func parseStreamMessage(msg redis.XMessage) streamMessage {
	str := func(key string) string {
		if v, ok := msg.Values[key].(string); ok {
			return v
		}
		return ""
	}
	return streamMessage{
		id:      msg.ID,
		kind:    str(fieldKind),
		orderID: str(fieldOrderID),
		payload: str(fieldEvent),
	}
}

func (m streamMessage) fields(extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("message_id", m.id),
		zap.String("kind", m.kind),
		zap.String("order_id", m.orderID),
		zap.Int("attempt", m.attempts),
	}, extra...)
}

func (m streamMessage) decode() (*model.ReconciliationEvent, error) {
	if m.payload == "" {
		return nil, errors.New("missing event payload")
	}
	var event model.ReconciliationEvent
	if err := json.Unmarshal([]byte(m.payload), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (q *RedisStreamReconciliationQueue) Publish(ctx context.Context, event *model.ReconciliationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		MaxLen: q.cfg.StreamMaxLen,
		Approx: true,
		Values: []interface{}{
			fieldKind, string(event.Kind),
			fieldOrderID, event.OrderID,
			fieldEvent, string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s for order %d: %w", event.Kind, event.OrderID, err)
	}

	q.log.Info("reconciliation event queued",
		zap.String("message_id", id),
		zap.String("kind", string(event.Kind)),
		zap.Int("order_id", event.OrderID),
		zap.String("cause", event.Cause),
	)
	return nil
}

// Subscribe 新事件與逾時重領的事件共用同一個 channel，兩邊都結束後才關閉
func (q *RedisStreamReconciliationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		q.consumeNew(ctx, out)
	}()
	go func() {
		defer wg.Done()
		q.reclaimIdle(ctx, out)
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (q *RedisStreamReconciliationQueue) consumeNew(ctx context.Context, out chan<- Delivery) {
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.groupName,
			Consumer: q.consumerName,
			Streams:  []string{q.streamKey, ">"},
			Count:    readBatchSize,
			Block:    q.cfg.ReadGroupBlockTime,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XReadGroup failed", zap.Error(err))
			select {
			case <-time.After(readErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				m := parseStreamMessage(msg)
				m.attempts = 1
				if !q.deliver(ctx, out, m) {
					return
				}
			}
		}
	}
}

func (q *RedisStreamReconciliationQueue) reclaimIdle(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	cursor := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		claimed, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.streamKey,
			Group:    q.groupName,
			Consumer: q.consumerName,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Start:    cursor,
			Count:    readBatchSize,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XAutoClaim failed", zap.Error(err))
			continue
		}
		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}

		for _, msg := range claimed {
			m := parseStreamMessage(msg)
			m.attempts = q.deliveryCount(ctx, m)
			if m.attempts-1 > q.cfg.MaxRetryCount {
				q.deadLetter(ctx, m, "retries exhausted")
				continue
			}
			q.log.Warn("reclaimed reconciliation event", m.fields()...)
			if !q.deliver(ctx, out, m) {
				return
			}
		}
	}
}

// deliveryCount XAUTOCLAIM 不回傳投遞次數，需另外查 PEL
func (q *RedisStreamReconciliationQueue) deliveryCount(ctx context.Context, m streamMessage) int {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  m.id,
		End:    m.id,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		q.log.Warn("delivery count unavailable", m.fields(zap.Error(err))...)
		return 0
	}
	return int(pending[0].RetryCount)
}

// deliver 回傳 false 表示 ctx 已結束
func (q *RedisStreamReconciliationQueue) deliver(ctx context.Context, out chan<- Delivery, m streamMessage) bool {
	event, err := m.decode()
	if err != nil {
		q.deadLetter(ctx, m, "undecodable payload: "+err.Error())
		return true
	}

	// 關機時 worker 仍可能在處理中，Ack 不跟著 ctx 取消
	ackCtx := context.WithoutCancel(ctx)
	d := Delivery{
		Data:    event,
		Attempt: m.attempts,
		Ack: func() {
			if err := q.client.XAck(ackCtx, q.streamKey, q.groupName, m.id).Err(); err != nil {
				q.log.Error("XAck failed", m.fields(zap.Error(err))...)
			}
		},
		Nack: func(requeue bool) {
			if !requeue {
				q.deadLetter(ackCtx, m, "rejected by consumer")
				return
			}
			q.log.Info("reconciliation event left pending for retry", m.fields(
				zap.Duration("retry_after", q.cfg.ClaimMinIdleTime),
				zap.Int("retries_left", q.cfg.MaxRetryCount-(m.attempts-1)),
			)...)
		},
	}

	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

// deadLetter 搬移與 Ack 放在同一個 MULTI 一起生效
func (q *RedisStreamReconciliationQueue) deadLetter(ctx context.Context, m streamMessage, reason string) {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: q.deadKey,
			MaxLen: q.cfg.StreamMaxLen,
			Approx: true,
			Values: []interface{}{
				fieldKind, m.kind,
				fieldOrderID, m.orderID,
				fieldEvent, m.payload,
				fieldReason, reason,
				fieldAttempts, m.attempts,
				fieldSourceID, m.id,
			},
		})
		pipe.XAck(ctx, q.streamKey, q.groupName, m.id)
		return nil
	})
	if err != nil {
		q.log.Error("dead-letter failed, event stays pending", m.fields(zap.String("reason", reason), zap.Error(err))...)
		return
	}
	q.log.Error("reconciliation event dead-lettered", m.fields(zap.String("reason", reason))...)
}
