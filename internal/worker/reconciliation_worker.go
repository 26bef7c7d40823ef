package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/queue"
	"github.com/Objecteee/ticket-on-line/internal/service"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"go.uber.org/zap"
)

const defaultRetryDelay = time.Second

type ReconciliationWorker interface {
	// 訂閱對帳隊列，ctx 結束時停止
	Start(ctx context.Context) error
	// 等待處理中的事件結束
	Wait()
}

type ReconciliationWorkerImpl struct {
	service    service.ReconciliationService
	queue      queue.ReconciliationQueue
	retryDelay time.Duration
	done       chan struct{}
	log        *zap.Logger
}

func NewReconciliationWorker(service service.ReconciliationService, queue queue.ReconciliationQueue, retryDelay time.Duration) ReconciliationWorker {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &ReconciliationWorkerImpl{
		service:    service,
		queue:      queue,
		retryDelay: retryDelay,
		done:       make(chan struct{}),
		log:        logger.WithComponent("worker"),
	}
}

func (w *ReconciliationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		close(w.done)
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
		w.log.Info("reconciliation worker stopped")
	}()
	return nil
}

func (w *ReconciliationWorkerImpl) Wait() {
	<-w.done
}

func (w *ReconciliationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	if msg.Data == nil {
		msg.Nack(false)
		return
	}

	err := w.service.Handle(ctx, msg.Data)
	if err == nil {
		msg.Ack()
		return
	}

	log := w.log.With(
		zap.String("kind", string(msg.Data.Kind)),
		zap.Int("order_id", msg.Data.OrderID),
		zap.Int("attempt", msg.Attempt),
		zap.Error(err),
	)

	// 資料本身有問題，重試也不會成功
	if errors.Is(err, apperrors.ErrInvalidInput) {
		log.Error("dropping malformed reconciliation event")
		msg.Nack(false)
		return
	}

	log.Warn("reconciliation failed, will retry")
	select {
	case <-time.After(w.retryDelay):
	case <-ctx.Done():
	}
	msg.Nack(true)
}
