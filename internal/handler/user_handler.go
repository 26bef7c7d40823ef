package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes 個人資料，需已通過 AuthMiddleware
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("profile", h.GetProfile)
	router.PUT("profile", h.UpdateProfile)
	router.PUT("profile/password", h.ChangePassword)
}

// RegisterAdminRoutes 後台帳號管理
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("users", h.GetUsers)
	router.POST("users", h.CreateUser)
	router.GET("users/:id", h.GetUser)
	router.PUT("users/:id", h.UpdateUser)
	router.PATCH("users/:id/status", h.SetStatus)
	router.PATCH("users/:id/role", h.SetRole)
	router.POST("users/:id/reset-password", h.ResetPassword)
}

type userListQuery struct {
	pageQuery
	Keyword string `form:"keyword"`
	Role    string `form:"role"`
	Status  *int   `form:"status"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	user, err := h.service.GetProfile(c, principal)
	if err != nil {
		respondError(c, err, "GetProfile")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req model.UpdateProfileRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.UpdateProfile(c, principal, req)
	if err != nil {
		respondError(c, err, "UpdateProfile")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req model.ChangePasswordRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.ChangePassword(c, principal, req); err != nil {
		respondError(c, err, "ChangePassword")
		return
	}

	respond(c, http.StatusOK, nil)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	var q userListQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}

	filter := model.UserFilter{
		Keyword: q.Keyword,
		Role:    model.Role(q.Role),
		Page:    q.toPage(),
	}
	if q.Status != nil {
		status := model.UserStatus(*q.Status)
		filter.Status = &status
	}

	result, err := h.service.List(c, filter)
	if err != nil {
		respondError(c, err, "GetUsers")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(c, id)
	if err != nil {
		respondError(c, err, "GetUser")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.Create(c, req)
	if err != nil {
		respondError(c, err, "CreateUser")
		return
	}

	respond(c, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.Update(c, id, req)
	if err != nil {
		respondError(c, err, "UpdateUser")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) SetStatus(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.SetStatus(c, principal, id, *req.Status)
	if err != nil {
		respondError(c, err, "SetUserStatus")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) SetRole(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRoleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.SetRole(c, principal, id, req.Role)
	if err != nil {
		respondError(c, err, "SetUserRole")
		return
	}

	respond(c, http.StatusOK, user)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ResetPasswordRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.ResetPassword(c, id, req.NewPassword); err != nil {
		respondError(c, err, "ResetPassword")
		return
	}

	respond(c, http.StatusOK, nil)
}
