package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/shopspring/decimal"
)

type TicketSearchService interface {
	SearchTickets(ctx context.Context, params model.TicketSearchParams) ([]*model.TicketSearchResult, error)
	GetTicketDetail(ctx context.Context, trainID int, params model.TicketDetailParams) (*model.TicketDetail, error)
}

type TicketSearchServiceImpl struct {
	trainRepo repository.TrainRepository
	stopRepo  repository.TrainStopRepository
	inventory InventoryService
}

func NewTicketSearchService(
	trainRepo repository.TrainRepository,
	stopRepo repository.TrainStopRepository,
	inventory InventoryService,
) TicketSearchService {
	return &TicketSearchServiceImpl{
		trainRepo: trainRepo,
		stopRepo:  stopRepo,
		inventory: inventory,
	}
}

// segment 同一車次上 from.StopOrder < to.StopOrder 的一段行程
type segment struct {
	from *model.TrainStop
	to   *model.TrainStop
}

// matchSegment 依停靠順序取第一組有效的 (from, to)。兩個切片都需已依 stop_order 排序
func matchSegment(fromStops, toStops []*model.TrainStop) (segment, bool) {
	for _, f := range fromStops {
		for _, t := range toStops {
			if t.StopOrder > f.StopOrder {
				return segment{from: f, to: t}, true
			}
		}
	}
	return segment{}, false
}

func groupStopsByTrain(stops []*model.TrainStop) map[int][]*model.TrainStop {
	grouped := make(map[int][]*model.TrainStop)
	for _, s := range stops {
		grouped[s.TrainID] = append(grouped[s.TrainID], s)
	}
	for _, list := range grouped {
		slices.SortStableFunc(list, func(a, b *model.TrainStop) int { return a.StopOrder - b.StopOrder })
	}
	return grouped
}

func (s *TicketSearchServiceImpl) SearchTickets(ctx context.Context, params model.TicketSearchParams) ([]*model.TicketSearchResult, error) {
	travelDate, err := model.ParseDate(params.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", params.Date, apperrors.ErrInvalidInput)
	}
	if params.SeatClass != "" && !params.SeatClass.IsValid() {
		return nil, fmt.Errorf("seat class %q: %w", params.SeatClass, apperrors.ErrInvalidInput)
	}

	if params.Departure == "" || params.Arrival == "" {
		return s.searchByEndpoints(ctx, params, travelDate)
	}

	fromStops, err := s.stopRepo.FindByStationLike(ctx, params.Departure)
	if err != nil {
		return nil, err
	}
	toStops, err := s.stopRepo.FindByStationLike(ctx, params.Arrival)
	if err != nil {
		return nil, err
	}

	fromByTrain := groupStopsByTrain(fromStops)
	toByTrain := groupStopsByTrain(toStops)

	segments := make(map[int]segment)
	candidateIDs := make([]int, 0)
	for trainID, fromList := range fromByTrain {
		toList, ok := toByTrain[trainID]
		if !ok {
			continue
		}
		if seg, ok := matchSegment(fromList, toList); ok {
			segments[trainID] = seg
			candidateIDs = append(candidateIDs, trainID)
		}
	}

	results := make([]*model.TicketSearchResult, 0)
	if len(candidateIDs) == 0 {
		return results, nil
	}
	slices.Sort(candidateIDs)

	trains, err := s.trainRepo.FindActiveByIDs(ctx, candidateIDs, params.TrainNumber)
	if err != nil {
		return nil, err
	}

	for _, train := range trains {
		seg, ok := segments[train.ID]
		if !ok {
			continue
		}
		result, err := s.buildResult(ctx, train, travelDate, params.SeatClass)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}
		result.DepartureStation = seg.from.StationName
		result.ArrivalStation = seg.to.StationName
		result.DepartureTime = seg.from.DepartureTime
		result.ArrivalTime = seg.to.ArrivalTime
		results = append(results, result)
	}

	return results, nil
}

// searchByEndpoints 未同時提供起訖站時，只比對車次的起點/終點站名
func (s *TicketSearchServiceImpl) searchByEndpoints(ctx context.Context, params model.TicketSearchParams, travelDate time.Time) ([]*model.TicketSearchResult, error) {
	trains, err := s.trainRepo.SearchByStations(ctx, params.Departure, params.Arrival, params.TrainNumber)
	if err != nil {
		return nil, err
	}

	results := make([]*model.TicketSearchResult, 0, len(trains))
	for _, train := range trains {
		result, err := s.buildResult(ctx, train, travelDate, params.SeatClass)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// buildResult 聚合各座位等級的可售數與起價。指定 seatClass 但車次未開此等級時回傳 nil
func (s *TicketSearchServiceImpl) buildResult(ctx context.Context, train *model.Train, travelDate time.Time, seatClass model.SeatClass) (*model.TicketSearchResult, error) {
	seats, err := s.seatAvailability(ctx, train, travelDate, seatClass)
	if err != nil {
		return nil, err
	}
	if seatClass != "" && len(seats) == 0 {
		return nil, nil
	}

	priceFrom, hasTicket := summarizeSeats(seats)
	return &model.TicketSearchResult{
		TrainID:          train.ID,
		TrainNumber:      train.TrainNumber,
		DepartureStation: train.DepartureStation,
		ArrivalStation:   train.ArrivalStation,
		DepartureTime:    train.DepartureTime,
		ArrivalTime:      train.ArrivalTime,
		VehicleType:      train.VehicleType,
		PriceFrom:        priceFrom,
		HasTicket:        hasTicket,
	}, nil
}

// seatAvailability 回傳車次有配置座位且有票價的等級
func (s *TicketSearchServiceImpl) seatAvailability(ctx context.Context, train *model.Train, travelDate time.Time, only model.SeatClass) ([]model.SeatAvailability, error) {
	seats := make([]model.SeatAvailability, 0, len(model.SeatClasses))
	for _, class := range model.SeatClasses {
		if only != "" && class != only {
			continue
		}
		price := train.PriceFor(class)
		if train.SeatsFor(class) <= 0 || !price.IsPositive() {
			continue
		}

		key := model.InventoryKey{TrainID: train.ID, TravelDate: travelDate, SeatClass: class}
		available, err := s.inventory.Available(ctx, train, key)
		if err != nil {
			return nil, err
		}
		seats = append(seats, model.SeatAvailability{
			SeatClass: class,
			Price:     price.Round(2),
			Available: available,
		})
	}
	return seats, nil
}

// summarizeSeats 起價取有票等級中的最低價；全部售完時退回所有等級的最低價
func summarizeSeats(seats []model.SeatAvailability) (decimal.Decimal, bool) {
	var (
		lowestAvailable decimal.Decimal
		lowestAny       decimal.Decimal
		hasTicket       bool
	)
	for _, seat := range seats {
		if lowestAny.IsZero() || seat.Price.LessThan(lowestAny) {
			lowestAny = seat.Price
		}
		if seat.Available <= 0 {
			continue
		}
		if !hasTicket || seat.Price.LessThan(lowestAvailable) {
			lowestAvailable = seat.Price
		}
		hasTicket = true
	}

	if hasTicket {
		return lowestAvailable, true
	}
	return lowestAny, false
}

func (s *TicketSearchServiceImpl) GetTicketDetail(ctx context.Context, trainID int, params model.TicketDetailParams) (*model.TicketDetail, error) {
	travelDate, err := model.ParseDate(params.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", params.Date, apperrors.ErrInvalidInput)
	}

	train, err := s.trainRepo.FindByID(ctx, trainID)
	if err != nil {
		return nil, err
	}
	if !train.IsActive() {
		return nil, apperrors.ErrTrainNotFound
	}

	seats, err := s.seatAvailability(ctx, train, travelDate, "")
	if err != nil {
		return nil, err
	}
	priceFrom, hasTicket := summarizeSeats(seats)

	detail := &model.TicketDetail{
		TicketSearchResult: model.TicketSearchResult{
			TrainID:          train.ID,
			TrainNumber:      train.TrainNumber,
			DepartureStation: train.DepartureStation,
			ArrivalStation:   train.ArrivalStation,
			DepartureTime:    train.DepartureTime,
			ArrivalTime:      train.ArrivalTime,
			VehicleType:      train.VehicleType,
			PriceFrom:        priceFrom,
			HasTicket:        hasTicket,
		},
		Seats: seats,
	}

	if params.Departure != "" && params.Arrival != "" {
		stops, err := s.stopRepo.ListByTrainID(ctx, train.ID)
		if err != nil {
			return nil, err
		}
		seg, ok := matchSegment(filterStops(stops, params.Departure), filterStops(stops, params.Arrival))
		if !ok {
			return nil, fmt.Errorf("train %s does not run %s to %s: %w",
				train.TrainNumber, params.Departure, params.Arrival, apperrors.ErrStopNotFound)
		}
		detail.DepartureStation = seg.from.StationName
		detail.ArrivalStation = seg.to.StationName
		detail.DepartureTime = seg.from.DepartureTime
		detail.ArrivalTime = seg.to.ArrivalTime
	}

	return detail, nil
}

func filterStops(stops []*model.TrainStop, name string) []*model.TrainStop {
	matched := make([]*model.TrainStop, 0)
	for _, s := range stops {
		if strings.Contains(s.StationName, name) {
			matched = append(matched, s)
		}
	}
	slices.SortStableFunc(matched, func(a, b *model.TrainStop) int { return a.StopOrder - b.StopOrder })
	return matched
}
