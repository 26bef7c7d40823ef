package queue

import (
	"context"
	"errors"

	"github.com/Objecteee/ticket-on-line/internal/model"
)

// ErrQueueFull 記憶體佇列 buffer 已滿
var ErrQueueFull = errors.New("reconciliation queue is full")

type Delivery struct {
	Data *model.ReconciliationEvent
	// Attempt 含本次在內的投遞次數，0 表示未知
	Attempt int
	Ack     func()
	Nack    func(requeue bool)
}

type ReconciliationQueue interface {
	// 發送待補償事件
	Publish(ctx context.Context, event *model.ReconciliationEvent) error
	// 訂閱事件，ctx 結束時關閉 channel
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryReconciliationQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan memoryMessage
}

type memoryMessage struct {
	event   *model.ReconciliationEvent
	attempt int
}

func NewMemoryReconciliationQueue(bufferSize int) ReconciliationQueue {
	return &MemoryReconciliationQueue{
		ch: make(chan memoryMessage, bufferSize),
	}
}

// Publish 不阻塞，buffer 滿時回傳 ErrQueueFull
func (q *MemoryReconciliationQueue) Publish(ctx context.Context, event *model.ReconciliationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- memoryMessage{event: event, attempt: 1}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryReconciliationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data:    msg.event,
					Attempt: msg.attempt,
					Ack:     func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							// 非阻塞重回隊列，滿了就丟棄
							select {
							case q.ch <- memoryMessage{event: msg.event, attempt: msg.attempt + 1}:
							default:
							}
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
