package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 個人資料與後台帳號管理
type UserService interface {
	GetProfile(ctx context.Context, principal model.Principal) (*model.User, error)
	UpdateProfile(ctx context.Context, principal model.Principal, req model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, principal model.Principal, req model.ChangePasswordRequest) error

	List(ctx context.Context, filter model.UserFilter) (*model.PageResult[*model.User], error)
	Get(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int, req model.UpdateUserRequest) (*model.User, error)
	// SetStatus / SetRole 不可作用在自己身上，避免管理員把自己鎖在外面
	SetStatus(ctx context.Context, principal model.Principal, id int, status model.UserStatus) (*model.User, error)
	SetRole(ctx context.Context, principal model.Principal, id int, role model.Role) (*model.User, error)
	ResetPassword(ctx context.Context, id int, newPassword string) error
}

type UserServiceImpl struct {
	repository repository.UserRepository
	bcryptCost int
	log        *zap.Logger
}

func NewUserService(userRepository repository.UserRepository, bcryptCost int) UserService {
	return &UserServiceImpl{
		repository: userRepository,
		bcryptCost: normalizeBcryptCost(bcryptCost),
		log:        logger.WithComponent("service"),
	}
}

// nonEmpty 空字串視為未提供
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, principal model.Principal) (*model.User, error) {
	return s.repository.FindByID(ctx, principal.UserID)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, principal model.Principal, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repository.Update(ctx, principal.UserID, model.UserUpdate{
		Username: nonEmpty(req.Username),
		Email:    nonEmpty(req.Email),
		Phone:    nonEmpty(req.Phone),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", zap.Int("user_id", user.ID))
	return user, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, principal model.Principal, req model.ChangePasswordRequest) error {
	user, err := s.repository.FindByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}
	s.log.Info("password changed", zap.Int("user_id", user.ID))
	return nil
}

func (s *UserServiceImpl) setPassword(ctx context.Context, id int, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password too short: %w", apperrors.ErrInvalidInput)
	}
	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	_, err = s.repository.Update(ctx, id, model.UserUpdate{PasswordHash: &hash})
	return err
}

func (s *UserServiceImpl) List(ctx context.Context, filter model.UserFilter) (*model.PageResult[*model.User], error) {
	filter.Page = filter.Page.Normalize()
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", filter.Role, apperrors.ErrInvalidInput)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("status %d: %w", *filter.Status, apperrors.ErrInvalidInput)
	}

	users, total, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PageResult[*model.User]{
		List:     users,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id int) (*model.User, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *UserServiceImpl) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", role, apperrors.ErrInvalidInput)
	}
	status := model.UserStatusActive
	if req.Status != nil {
		status = *req.Status
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("status %d: %w", status, apperrors.ErrInvalidInput)
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repository.Create(ctx, &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        nonEmpty(&req.Email),
		Phone:        nonEmpty(&req.Phone),
		Role:         role,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created by admin", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id int, req model.UpdateUserRequest) (*model.User, error) {
	return s.repository.Update(ctx, id, model.UserUpdate{
		Email: nonEmpty(req.Email),
		Phone: nonEmpty(req.Phone),
	})
}

func (s *UserServiceImpl) SetStatus(ctx context.Context, principal model.Principal, id int, status model.UserStatus) (*model.User, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("status %d: %w", status, apperrors.ErrInvalidInput)
	}
	if principal.UserID == id {
		return nil, fmt.Errorf("cannot change own status: %w", apperrors.ErrForbidden)
	}

	user, err := s.repository.Update(ctx, id, model.UserUpdate{Status: &status})
	if err != nil {
		return nil, err
	}

	s.log.Info("user status changed", zap.Int("user_id", id), zap.Int("status", int(status)))
	return user, nil
}

func (s *UserServiceImpl) SetRole(ctx context.Context, principal model.Principal, id int, role model.Role) (*model.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", role, apperrors.ErrInvalidInput)
	}
	if principal.UserID == id {
		return nil, fmt.Errorf("cannot change own role: %w", apperrors.ErrForbidden)
	}

	user, err := s.repository.Update(ctx, id, model.UserUpdate{Role: &role})
	if err != nil {
		return nil, err
	}

	s.log.Info("user role changed", zap.Int("user_id", id), zap.String("role", string(role)))
	return user, nil
}

func (s *UserServiceImpl) ResetPassword(ctx context.Context, id int, newPassword string) error {
	if err := s.setPassword(ctx, id, newPassword); err != nil {
		return err
	}
	s.log.Info("password reset by admin", zap.Int("user_id", id))
	return nil
}
