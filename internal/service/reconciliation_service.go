package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"go.uber.org/zap"
)

// ReconciliationService 重試取消/退票時失敗的補償步驟
type ReconciliationService interface {
	Handle(ctx context.Context, event *model.ReconciliationEvent) error
}

type ReconciliationServiceImpl struct {
	inventory InventoryService
	saleRepo  repository.TicketSaleRepository
}

func NewReconciliationService(inventory InventoryService, saleRepo repository.TicketSaleRepository) ReconciliationService {
	return &ReconciliationServiceImpl{inventory: inventory, saleRepo: saleRepo}
}

func (s *ReconciliationServiceImpl) Handle(ctx context.Context, event *model.ReconciliationEvent) error {
	log := logger.WithComponent("service").With(
		zap.String("kind", string(event.Kind)),
		zap.Int("order_id", event.OrderID),
	)

	switch event.Kind {
	case model.ReconcileReplenish:
		key := model.InventoryKey{TrainID: event.TrainID, TravelDate: event.TravelDate, SeatClass: event.SeatClass}
		if _, err := s.inventory.Replenish(ctx, key, event.TicketCount); err != nil {
			// 沒有車次也沒有庫存列，重試無意義
			if errors.Is(err, apperrors.ErrInventoryNotFound) {
				return fmt.Errorf("nothing to replenish: %w: %w", err, apperrors.ErrInvalidInput)
			}
			return err
		}
	case model.ReconcileSaleReverse:
		if event.Sale == nil {
			return fmt.Errorf("sale reversal without record: %w", apperrors.ErrInvalidInput)
		}
		if _, err := s.saleRepo.Create(ctx, event.Sale); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown reconciliation kind %q: %w", event.Kind, apperrors.ErrInvalidInput)
	}

	log.Info("reconciliation applied")
	return nil
}
