package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Objecteee/ticket-on-line/internal/auth"
	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	// EnsureAdmin 帳號不存在時建立管理員，已存在則不變
	EnsureAdmin(ctx context.Context, username, password string) error
}

type AuthServiceImpl struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	log        *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: normalizeBcryptCost(bcryptCost),
		log:        logger.WithComponent("auth"),
	}
}

func normalizeBcryptCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthServiceImpl) createUser(ctx context.Context, username, password, email string, role model.Role) (*model.User, error) {
	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if email != "" {
		user.Email = &email
	}

	return s.userRepo.Create(ctx, user)
}

func (s *AuthServiceImpl) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	user, err := s.createUser(ctx, req.Username, req.Password, req.Email, model.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn("login failed", zap.String("username", req.Username))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		s.log.Warn("login rejected, account disabled", zap.Int("user_id", user.ID))
		return nil, fmt.Errorf("account %s is disabled: %w", user.Username, apperrors.ErrForbidden)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	user, err := s.createUser(ctx, username, password, "", model.RoleAdmin)
	if err != nil && !errors.Is(err, apperrors.ErrConflict) {
		return err
	}
	if user != nil {
		s.log.Info("admin account created", zap.String("username", username))
	}
	return nil
}
