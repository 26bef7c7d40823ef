package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus 1 啟用 / 0 停用
type UserStatus int

const (
	UserStatusDisabled UserStatus = 0
	UserStatusActive   UserStatus = 1
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusDisabled || s == UserStatusActive
}

type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Email        *string    `json:"email,omitempty" db:"email"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Role         Role       `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Principal 已驗證的呼叫者
type Principal struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess 非管理員只能操作自己的資源
func (p Principal) CanAccess(ownerID int) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=6,max=20"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UserFilter struct {
	Keyword string
	Role    Role
	Status  *UserStatus
	Page    Page
}

// CreateUserRequest 後台建立帳號；Role 預設 user，Status 預設啟用
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Password string      `json:"password" binding:"required,min=6"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Phone    string      `json:"phone" binding:"omitempty,min=6,max=20"`
	Role     Role        `json:"role"`
	Status   *UserStatus `json:"status"`
}

type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,min=6,max=20"`
}

type UpdateUserStatusRequest struct {
	Status *UserStatus `json:"status" binding:"required"`
}

type UpdateUserRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UserUpdate 只更新非 nil 欄位
type UserUpdate struct {
	Username     *string
	Email        *string
	Phone        *string
	Role         *Role
	Status       *UserStatus
	PasswordHash *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Phone == nil &&
		u.Role == nil && u.Status == nil && u.PasswordHash == nil
}
