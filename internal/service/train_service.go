package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/database"
	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const clockLayout = "15:04:05"

type TrainService interface {
	List(ctx context.Context, filter model.TrainFilter) (*model.PageResult[*model.Train], error)
	Get(ctx context.Context, id int) (*model.Train, error)
	Create(ctx context.Context, req model.CreateTrainRequest) (*model.Train, error)
	Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error)
	Delete(ctx context.Context, id int) error
	ListStops(ctx context.Context, trainID int) ([]*model.TrainStop, error)
	// SaveStops 以整份清單取代車次的停靠站
	SaveStops(ctx context.Context, trainID int, stops []model.TrainStopInput) ([]*model.TrainStop, error)
}

type TrainServiceImpl struct {
	db         database.Transactor
	repository repository.TrainRepository
	stopRepo   repository.TrainStopRepository
	log        *zap.Logger
}

func NewTrainService(db database.Transactor, trainRepository repository.TrainRepository, stopRepository repository.TrainStopRepository) TrainService {
	return &TrainServiceImpl{
		db:         db,
		repository: trainRepository,
		stopRepo:   stopRepository,
		log:        logger.WithComponent("service"),
	}
}

// normalizeClock 接受 HH:MM 或 HH:MM:SS，統一為 HH:MM:SS
func normalizeClock(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	for _, layout := range []string{clockLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("time %q: %w", value, apperrors.ErrInvalidInput)
}

func validatePrice(name string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%s must not be negative: %w", name, apperrors.ErrInvalidInput)
	}
	return nil
}

func (s *TrainServiceImpl) List(ctx context.Context, filter model.TrainFilter) (*model.PageResult[*model.Train], error) {
	filter.Page = filter.Page.Normalize()

	trains, total, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PageResult[*model.Train]{
		List:     trains,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

func (s *TrainServiceImpl) Get(ctx context.Context, id int) (*model.Train, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *TrainServiceImpl) Create(ctx context.Context, req model.CreateTrainRequest) (*model.Train, error) {
	departureTime, err := normalizeClock(req.DepartureTime)
	if err != nil {
		return nil, err
	}
	arrivalTime, err := normalizeClock(req.ArrivalTime)
	if err != nil {
		return nil, err
	}
	if req.TotalSeatsBusiness < 0 || req.TotalSeatsFirst < 0 || req.TotalSeatsSecond < 0 {
		return nil, fmt.Errorf("seat count must not be negative: %w", apperrors.ErrInvalidInput)
	}
	for name, price := range map[string]decimal.Decimal{
		"price_business": req.PriceBusiness,
		"price_first":    req.PriceFirst,
		"price_second":   req.PriceSecond,
	} {
		if err := validatePrice(name, price); err != nil {
			return nil, err
		}
	}

	status := model.TrainStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	train, err := s.repository.Create(ctx, &model.Train{
		TrainNumber:        req.TrainNumber,
		DepartureStation:   req.DepartureStation,
		ArrivalStation:     req.ArrivalStation,
		DepartureTime:      departureTime,
		ArrivalTime:        arrivalTime,
		VehicleType:        req.VehicleType,
		TotalSeatsBusiness: req.TotalSeatsBusiness,
		TotalSeatsFirst:    req.TotalSeatsFirst,
		TotalSeatsSecond:   req.TotalSeatsSecond,
		PriceBusiness:      req.PriceBusiness.Round(2),
		PriceFirst:         req.PriceFirst.Round(2),
		PriceSecond:        req.PriceSecond.Round(2),
		Status:             status,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("train created", zap.Int("train_id", train.ID), zap.String("train_number", train.TrainNumber))
	return train, nil
}

func (s *TrainServiceImpl) Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error) {
	for _, clock := range []**string{&params.DepartureTime, &params.ArrivalTime} {
		if *clock == nil {
			continue
		}
		normalized, err := normalizeClock(**clock)
		if err != nil {
			return nil, err
		}
		*clock = &normalized
	}
	for _, seats := range []*int{params.TotalSeatsBusiness, params.TotalSeatsFirst, params.TotalSeatsSecond} {
		if seats != nil && *seats < 0 {
			return nil, fmt.Errorf("seat count must not be negative: %w", apperrors.ErrInvalidInput)
		}
	}
	for _, price := range []*decimal.Decimal{params.PriceBusiness, params.PriceFirst, params.PriceSecond} {
		if price != nil {
			if err := validatePrice("price", *price); err != nil {
				return nil, err
			}
		}
	}
	if params.Status != nil && *params.Status != model.TrainStatusActive && *params.Status != model.TrainStatusInactive {
		return nil, fmt.Errorf("train status %d: %w", *params.Status, apperrors.ErrInvalidInput)
	}

	return s.repository.Update(ctx, id, params)
}

func (s *TrainServiceImpl) Delete(ctx context.Context, id int) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("train deleted", zap.Int("train_id", id))
	return nil
}

func (s *TrainServiceImpl) ListStops(ctx context.Context, trainID int) ([]*model.TrainStop, error) {
	if _, err := s.repository.FindByID(ctx, trainID); err != nil {
		return nil, err
	}
	return s.stopRepo.ListByTrainID(ctx, trainID)
}

func (s *TrainServiceImpl) SaveStops(ctx context.Context, trainID int, inputs []model.TrainStopInput) ([]*model.TrainStop, error) {
	if _, err := s.repository.FindByID(ctx, trainID); err != nil {
		return nil, err
	}

	stops := make([]*model.TrainStop, 0, len(inputs))
	lastOrder := 0
	for i, in := range inputs {
		if in.StationName == "" {
			return nil, fmt.Errorf("stop %d has no station name: %w", i, apperrors.ErrInvalidInput)
		}
		// stop_order 必須嚴格遞增
		if in.StopOrder <= lastOrder {
			return nil, fmt.Errorf("stop_order %d after %d is not increasing: %w", in.StopOrder, lastOrder, apperrors.ErrInvalidInput)
		}
		lastOrder = in.StopOrder

		arrival, err := normalizeClock(in.ArrivalTime)
		if err != nil {
			return nil, err
		}
		departure, err := normalizeClock(in.DepartureTime)
		if err != nil {
			return nil, err
		}
		stops = append(stops, &model.TrainStop{
			TrainID:       trainID,
			StationName:   in.StationName,
			StopOrder:     in.StopOrder,
			ArrivalTime:   arrival,
			DepartureTime: departure,
		})
	}

	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.stopRepo.ReplaceForTrain(ctx, tx, trainID, stops)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("train stops saved", zap.Int("train_id", trainID), zap.Int("stops", len(stops)))
	return s.stopRepo.ListByTrainID(ctx, trainID)
}
