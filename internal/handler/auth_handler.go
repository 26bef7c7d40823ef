package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("auth/register", h.Register)
	router.POST("auth/login", h.Login)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.Register(c, req)
	if err != nil {
		respondError(c, err, "Register")
		return
	}

	respond(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.service.Login(c, req)
	if err != nil {
		respondError(c, err, "Login")
		return
	}

	respond(c, http.StatusOK, resp)
}
