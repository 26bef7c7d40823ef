package service

import (
	"context"
	"fmt"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"go.uber.org/zap"
)

// PassengerService 常用乘車人，一律以呼叫者本人為範圍
type PassengerService interface {
	List(ctx context.Context, principal model.Principal) ([]*model.SavedPassenger, error)
	Create(ctx context.Context, principal model.Principal, req model.CreatePassengerRequest) (*model.SavedPassenger, error)
	Update(ctx context.Context, principal model.Principal, id int, req model.UpdatePassengerRequest) (*model.SavedPassenger, error)
	Delete(ctx context.Context, principal model.Principal, id int) error
	SetDefault(ctx context.Context, principal model.Principal, id int) error
	ClearDefault(ctx context.Context, principal model.Principal) error
}

type PassengerServiceImpl struct {
	repository repository.PassengerRepository
	log        *zap.Logger
}

func NewPassengerService(passengerRepository repository.PassengerRepository) PassengerService {
	return &PassengerServiceImpl{
		repository: passengerRepository,
		log:        logger.WithComponent("service"),
	}
}

func (s *PassengerServiceImpl) List(ctx context.Context, principal model.Principal) ([]*model.SavedPassenger, error) {
	return s.repository.ListByUser(ctx, principal.UserID)
}

func (s *PassengerServiceImpl) Create(ctx context.Context, principal model.Principal, req model.CreatePassengerRequest) (*model.SavedPassenger, error) {
	passenger, err := s.repository.Create(ctx, &model.SavedPassenger{
		UserID: principal.UserID,
		Name:   req.Name,
		IDCard: req.IDCard,
		Phone:  nonEmpty(&req.Phone),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("passenger saved", zap.Int("user_id", principal.UserID), zap.Int("passenger_id", passenger.ID))
	return passenger, nil
}

func (s *PassengerServiceImpl) Update(ctx context.Context, principal model.Principal, id int, req model.UpdatePassengerRequest) (*model.SavedPassenger, error) {
	passenger, err := s.repository.FindByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, err
	}

	if v := nonEmpty(req.Name); v != nil {
		passenger.Name = *v
	}
	if v := nonEmpty(req.IDCard); v != nil {
		passenger.IDCard = *v
	}
	if req.Phone != nil {
		// 空字串表示清除電話
		passenger.Phone = nonEmpty(req.Phone)
	}

	return s.repository.Update(ctx, passenger)
}

func (s *PassengerServiceImpl) Delete(ctx context.Context, principal model.Principal, id int) error {
	return s.repository.Delete(ctx, principal.UserID, id)
}

func (s *PassengerServiceImpl) SetDefault(ctx context.Context, principal model.Principal, id int) error {
	return s.repository.SetDefault(ctx, principal.UserID, id)
}

func (s *PassengerServiceImpl) ClearDefault(ctx context.Context, principal model.Principal) error {
	return s.repository.ClearDefault(ctx, principal.UserID)
}

// resolvePassengers 依 id 順序取出呼叫者的常用乘車人；任何一個不屬於呼叫者即失敗
func resolvePassengers(ctx context.Context, repo repository.PassengerRepository, userID int, ids []int) ([]model.Passenger, error) {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			return nil, fmt.Errorf("passenger id %d: %w", id, apperrors.ErrInvalidPurchase)
		}
		seen[id] = true
	}

	found, err := repo.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*model.SavedPassenger, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	passengers := make([]model.Passenger, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("passenger %d: %w", id, apperrors.ErrPassengerNotFound)
		}
		passengers = append(passengers, p.ToPassenger())
	}
	return passengers, nil
}
