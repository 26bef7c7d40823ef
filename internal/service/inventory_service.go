package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/database"
	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type InventoryService interface {
	// Reserve 在呼叫端交易中扣減庫存，庫存列不存在時以車次座位數建立
	Reserve(ctx context.Context, tx pgx.Tx, train *model.Train, key model.InventoryKey, count int) (*model.TicketInventory, error)
	// Replenish 取消/退票時回補庫存(獨立交易)，sold_seats 最小為 0
	Replenish(ctx context.Context, key model.InventoryKey, count int) (*model.TicketInventory, error)
	// Available 優先讀庫存列，沒有時以已付款訂單票數推算
	Available(ctx context.Context, train *model.Train, key model.InventoryKey) (int, error)
	ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error)
}

type InventoryServiceImpl struct {
	db        database.Transactor
	repo      repository.InventoryRepository
	trainRepo repository.TrainRepository
	orderRepo repository.OrderRepository
	log       *zap.Logger
}

func NewInventoryService(
	db database.Transactor,
	repo repository.InventoryRepository,
	trainRepo repository.TrainRepository,
	orderRepo repository.OrderRepository,
) InventoryService {
	return &InventoryServiceImpl{
		db:        db,
		repo:      repo,
		trainRepo: trainRepo,
		orderRepo: orderRepo,
		log:       logger.WithComponent("inventory"),
	}
}

func (s *InventoryServiceImpl) Reserve(ctx context.Context, tx pgx.Tx, train *model.Train, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	if count <= 0 {
		return nil, apperrors.ErrInvalidPurchase
	}

	total := train.SeatsFor(key.SeatClass)
	if count > total {
		return nil, apperrors.ErrInsufficientInventory
	}

	if err := s.repo.EnsureRow(ctx, tx, key, total); err != nil {
		return nil, fmt.Errorf("ensure inventory row: %w", err)
	}

	// 條件式更新，避免先讀後寫造成超賣
	inv, err := s.repo.IncrementSold(ctx, tx, key, count)
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory reserved",
		zap.Int("train_id", key.TrainID),
		zap.String("travel_date", key.TravelDate.Format(model.DateLayout)),
		zap.String("seat_class", string(key.SeatClass)),
		zap.Int("count", count),
		zap.Int("available", inv.Available()),
	)

	return inv, nil
}

func (s *InventoryServiceImpl) Replenish(ctx context.Context, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	// 車次不存在時只能回補既有的庫存列
	ensure := true
	var total int
	train, err := s.trainRepo.FindByID(ctx, key.TrainID)
	switch {
	case err == nil:
		total = train.SeatsFor(key.SeatClass)
	case errors.Is(err, apperrors.ErrTrainNotFound):
		ensure = false
	default:
		return nil, err
	}

	var inv *model.TicketInventory
	err = database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if ensure {
			if err := s.repo.EnsureRow(ctx, tx, key, total); err != nil {
				return fmt.Errorf("ensure inventory row: %w", err)
			}
		}
		var err error
		inv, err = s.repo.DecrementSold(ctx, tx, key, count)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory replenished",
		zap.Int("train_id", key.TrainID),
		zap.String("travel_date", key.TravelDate.Format(model.DateLayout)),
		zap.String("seat_class", string(key.SeatClass)),
		zap.Int("count", count),
		zap.Int("available", inv.Available()),
	)

	return inv, nil
}

func (s *InventoryServiceImpl) Available(ctx context.Context, train *model.Train, key model.InventoryKey) (int, error) {
	inv, err := s.repo.FindByKey(ctx, key)
	if err == nil {
		return inv.Available(), nil
	}
	if !errors.Is(err, apperrors.ErrInventoryNotFound) {
		return 0, err
	}

	sold, err := s.orderRepo.SumSoldTickets(ctx, key)
	if err != nil {
		return 0, err
	}

	return max(0, train.SeatsFor(key.SeatClass)-sold), nil
}

func (s *InventoryServiceImpl) ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error) {
	if _, err := s.trainRepo.FindByID(ctx, trainID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrainDate(ctx, trainID, travelDate)
}
