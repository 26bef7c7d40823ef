package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxStatsLimit 排行類統計最多回傳筆數
const MaxStatsLimit = 50

var saleCSVHeader = []string{"sale_date", "train_number", "destination", "seat_class", "ticket_count", "actual_amount", "order_id"}

type TicketSaleService interface {
	List(ctx context.Context, filter model.TicketSaleFilter) (*model.PageResult[*model.TicketSaleRecord], error)
	// Create 後台手動登錄，須與車次資料及票價一致
	Create(ctx context.Context, req model.CreateTicketSaleRequest) (*model.TicketSaleRecord, error)
	Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error)
	Summary(ctx context.Context, filter model.TicketSaleFilter) (*model.SalesSummary, error)
	RefundTrend(ctx context.Context, filter model.TicketSaleFilter) ([]*model.RefundTrendPoint, error)
	ExportCSV(ctx context.Context, filter model.TicketSaleFilter, w io.Writer) error
}

type TicketSaleServiceImpl struct {
	repository repository.TicketSaleRepository
	trainRepo  repository.TrainRepository
	userRepo   repository.UserRepository
	orderRepo  repository.OrderRepository
	refundRepo repository.RefundRepository
	log        *zap.Logger
}

func NewTicketSaleService(
	saleRepository repository.TicketSaleRepository,
	trainRepository repository.TrainRepository,
	userRepository repository.UserRepository,
	orderRepository repository.OrderRepository,
	refundRepository repository.RefundRepository,
) TicketSaleService {
	return &TicketSaleServiceImpl{
		repository: saleRepository,
		trainRepo:  trainRepository,
		userRepo:   userRepository,
		orderRepo:  orderRepository,
		refundRepo: refundRepository,
		log:        logger.WithComponent("service"),
	}
}

func (s *TicketSaleServiceImpl) List(ctx context.Context, filter model.TicketSaleFilter) (*model.PageResult[*model.TicketSaleRecord], error) {
	filter.Page = filter.Page.Normalize()

	records, total, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PageResult[*model.TicketSaleRecord]{
		List:     records,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

func (s *TicketSaleServiceImpl) Create(ctx context.Context, req model.CreateTicketSaleRequest) (*model.TicketSaleRecord, error) {
	saleDate, err := model.ParseDate(req.SaleDate)
	if err != nil {
		return nil, fmt.Errorf("sale date %q: %w", req.SaleDate, apperrors.ErrInvalidInput)
	}
	if !req.SeatClass.IsValid() {
		return nil, fmt.Errorf("seat class %q: %w", req.SeatClass, apperrors.ErrInvalidInput)
	}
	if req.TicketCount <= 0 {
		return nil, fmt.Errorf("ticket count %d: %w", req.TicketCount, apperrors.ErrInvalidInput)
	}

	train, err := s.trainRepo.FindByID(ctx, req.TrainID)
	if err != nil {
		return nil, err
	}
	if train.TrainNumber != req.TrainNumber {
		return nil, fmt.Errorf("train number %s does not match train %d: %w", req.TrainNumber, req.TrainID, apperrors.ErrInvalidInput)
	}

	destination := req.Destination
	if destination == "" {
		destination = train.ArrivalStation
	}
	if destination != train.ArrivalStation {
		return nil, fmt.Errorf("destination %s is not the terminal of %s: %w", destination, train.TrainNumber, apperrors.ErrInvalidInput)
	}

	expected := train.PriceFor(req.SeatClass).Mul(decimal.NewFromInt(int64(req.TicketCount))).Round(2)
	amount := req.ActualAmount
	if amount.IsZero() {
		amount = expected
	}
	if !amount.Round(2).Equal(expected) {
		return nil, fmt.Errorf("actual amount %s, expected %s: %w", amount.StringFixed(2), expected.StringFixed(2), apperrors.ErrInvalidInput)
	}

	record, err := s.repository.Create(ctx, &model.TicketSaleRecord{
		SaleDate:     saleDate,
		TrainID:      train.ID,
		TrainNumber:  train.TrainNumber,
		Destination:  destination,
		SeatClass:    req.SeatClass,
		TicketCount:  req.TicketCount,
		ActualAmount: expected,
		OrderID:      req.OrderID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket sale recorded manually", zap.Int("sale_id", record.ID), zap.String("train_number", record.TrainNumber))
	return record, nil
}

func (s *TicketSaleServiceImpl) Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error) {
	if groupBy == "" {
		groupBy = model.SaleGroupByDate
	}
	if !groupBy.IsValid() {
		return nil, fmt.Errorf("group by %q: %w", groupBy, apperrors.ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Limit > MaxStatsLimit {
		return nil, fmt.Errorf("limit %d: %w", filter.Limit, apperrors.ErrInvalidInput)
	}
	return s.repository.Stats(ctx, groupBy, filter)
}

func (s *TicketSaleServiceImpl) RefundTrend(ctx context.Context, filter model.TicketSaleFilter) ([]*model.RefundTrendPoint, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("end date before start date: %w", apperrors.ErrInvalidInput)
	}
	return s.refundRepo.Trend(ctx, filter.StartDate, filter.EndDate)
}

func (s *TicketSaleServiceImpl) Summary(ctx context.Context, filter model.TicketSaleFilter) (*model.SalesSummary, error) {
	var summary model.SalesSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.Users, err = s.userRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Orders, err = s.orderRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Refunds, err = s.refundRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.SalesAmount, err = s.repository.SumAmount(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (s *TicketSaleServiceImpl) ExportCSV(ctx context.Context, filter model.TicketSaleFilter, w io.Writer) error {
	records, err := s.repository.ListAll(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(saleCSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		orderID := ""
		if r.OrderID != nil {
			orderID = strconv.Itoa(*r.OrderID)
		}
		row := []string{
			r.SaleDate.Format(model.DateLayout),
			r.TrainNumber,
			r.Destination,
			string(r.SeatClass),
			strconv.Itoa(r.TicketCount),
			r.ActualAmount.StringFixed(2),
			orderID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
