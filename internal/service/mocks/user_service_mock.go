package mocks

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func NewMockUserService(t *testing.T) *MockUserService {
	m := &MockUserService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, principal model.Principal) (*model.User, error) {
	return m.user(m.Called(ctx, principal))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, principal model.Principal, req model.UpdateProfileRequest) (*model.User, error) {
	return m.user(m.Called(ctx, principal, req))
}

func (m *MockUserService) ChangePassword(ctx context.Context, principal model.Principal, req model.ChangePasswordRequest) error {
	return m.Called(ctx, principal, req).Error(0)
}

func (m *MockUserService) List(ctx context.Context, filter model.UserFilter) (*model.PageResult[*model.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageResult[*model.User]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockUserService) Update(ctx context.Context, id int, req model.UpdateUserRequest) (*model.User, error) {
	return m.user(m.Called(ctx, id, req))
}

func (m *MockUserService) SetStatus(ctx context.Context, principal model.Principal, id int, status model.UserStatus) (*model.User, error) {
	return m.user(m.Called(ctx, principal, id, status))
}

func (m *MockUserService) SetRole(ctx context.Context, principal model.Principal, id int, role model.Role) (*model.User, error) {
	return m.user(m.Called(ctx, principal, id, role))
}

func (m *MockUserService) ResetPassword(ctx context.Context, id int, newPassword string) error {
	return m.Called(ctx, id, newPassword).Error(0)
}
