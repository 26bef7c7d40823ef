package service_test

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"
	repoMocks "github.com/Objecteee/ticket-on-line/internal/repository/mocks"
	"github.com/Objecteee/ticket-on-line/internal/service"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupUserService(t *testing.T) (service.UserService, *repoMocks.MockUserRepository) {
	users := repoMocks.NewMockUserRepository(t)
	return service.NewUserService(users, bcrypt.MinCost), users
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - blank fields are ignored", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, alice.UserID, mock.MatchedBy(func(u model.UserUpdate) bool {
			return u.Username == nil && u.Email == nil &&
				u.Phone != nil && *u.Phone == "0912345678" &&
				u.Role == nil && u.Status == nil && u.PasswordHash == nil
		})).Return(&model.User{ID: 1, Username: "alice"}, nil).Once()

		blank := "  "
		phone := " 0912345678 "
		user, err := svc.UpdateProfile(ctx, alice, model.UpdateProfileRequest{Username: &blank, Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("Failed - username taken", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, alice.UserID, mock.Anything).Return(nil, apperrors.ErrConflict).Once()

		name := "bob"
		_, err := svc.UpdateProfile(ctx, alice, model.UpdateProfileRequest{Username: &name})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("FindByID", ctx, alice.UserID).
			Return(&model.User{ID: 1, PasswordHash: hashed(t, "secret1")}, nil).Once()
		users.On("Update", ctx, alice.UserID, mock.MatchedBy(func(u model.UserUpdate) bool {
			return u.PasswordHash != nil &&
				bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("secret2")) == nil
		})).Return(&model.User{ID: 1}, nil).Once()

		err := svc.ChangePassword(ctx, alice, model.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"})
		require.NoError(t, err)
	})

	t.Run("Failed - wrong old password", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("FindByID", ctx, alice.UserID).
			Return(&model.User{ID: 1, PasswordHash: hashed(t, "secret1")}, nil).Once()

		err := svc.ChangePassword(ctx, alice, model.ChangePasswordRequest{OldPassword: "wrong1", NewPassword: "secret2"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("Failed - new password too short", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("FindByID", ctx, alice.UserID).
			Return(&model.User{ID: 1, PasswordHash: hashed(t, "secret1")}, nil).Once()

		err := svc.ChangePassword(ctx, alice, model.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - page is normalized", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("List", ctx, mock.MatchedBy(func(f model.UserFilter) bool {
			return f.Page.Page == 1 && f.Page.PageSize > 0 && f.Keyword == "ali"
		})).Return([]*model.User{{ID: 1}}, 1, nil).Once()

		result, err := svc.List(ctx, model.UserFilter{Keyword: "ali"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 1, result.Page)
	})

	t.Run("Failed - unknown role", func(t *testing.T) {
		svc, _ := setupUserService(t)

		_, err := svc.List(ctx, model.UserFilter{Role: "owner"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - unknown status", func(t *testing.T) {
		svc, _ := setupUserService(t)

		status := model.UserStatus(7)
		_, err := svc.List(ctx, model.UserFilter{Status: &status})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - defaults", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "carol" &&
				u.Role == model.RoleUser &&
				u.Status == model.UserStatusActive &&
				u.Email == nil && u.Phone != nil && *u.Phone == "0987654321" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(&model.User{ID: 3, Username: "carol", Role: model.RoleUser}, nil).Once()

		user, err := svc.Create(ctx, model.CreateUserRequest{Username: "carol", Password: "secret1", Phone: "0987654321"})
		require.NoError(t, err)
		assert.Equal(t, 3, user.ID)
	})

	t.Run("Success - disabled admin", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAdmin && u.Status == model.UserStatusDisabled
		})).Return(&model.User{ID: 4}, nil).Once()

		disabled := model.UserStatusDisabled
		_, err := svc.Create(ctx, model.CreateUserRequest{Username: "dave", Password: "secret1", Role: model.RoleAdmin, Status: &disabled})
		require.NoError(t, err)
	})

	t.Run("Failed - unknown role", func(t *testing.T) {
		svc, _ := setupUserService(t)

		_, err := svc.Create(ctx, model.CreateUserRequest{Username: "carol", Password: "secret1", Role: "owner"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestUserService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, 7, mock.MatchedBy(func(u model.UserUpdate) bool {
			return u.Status != nil && *u.Status == model.UserStatusDisabled && u.Role == nil
		})).Return(&model.User{ID: 7, Status: model.UserStatusDisabled}, nil).Once()

		user, err := svc.SetStatus(ctx, admin, 7, model.UserStatusDisabled)
		require.NoError(t, err)
		assert.False(t, user.IsActive())
	})

	t.Run("Failed - own account", func(t *testing.T) {
		svc, _ := setupUserService(t)

		_, err := svc.SetStatus(ctx, admin, admin.UserID, model.UserStatusDisabled)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Failed - unknown status", func(t *testing.T) {
		svc, _ := setupUserService(t)

		_, err := svc.SetStatus(ctx, admin, 7, model.UserStatus(2))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - user not found", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, 8, mock.Anything).Return(nil, apperrors.ErrUserNotFound).Once()

		_, err := svc.SetStatus(ctx, admin, 8, model.UserStatusActive)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_SetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, 7, mock.MatchedBy(func(u model.UserUpdate) bool {
			return u.Role != nil && *u.Role == model.RoleAdmin
		})).Return(&model.User{ID: 7, Role: model.RoleAdmin}, nil).Once()

		user, err := svc.SetRole(ctx, admin, 7, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("Failed - own account", func(t *testing.T) {
		svc, _ := setupUserService(t)

		_, err := svc.SetRole(ctx, admin, admin.UserID, model.RoleUser)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, users := setupUserService(t)
		users.On("Update", ctx, 7, mock.MatchedBy(func(u model.UserUpdate) bool {
			return u.PasswordHash != nil &&
				bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("newpass1")) == nil
		})).Return(&model.User{ID: 7}, nil).Once()

		require.NoError(t, svc.ResetPassword(ctx, 7, "newpass1"))
	})

	t.Run("Failed - too short", func(t *testing.T) {
		svc, _ := setupUserService(t)

		err := svc.ResetPassword(ctx, 7, "abc")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
