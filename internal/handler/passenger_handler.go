package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	service service.PassengerService
}

func NewPassengerHandler(service service.PassengerService) *PassengerHandler {
	return &PassengerHandler{service: service}
}

// RegisterRoutes 常用乘車人，需已通過 AuthMiddleware
func (h *PassengerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("passengers", h.GetPassengers)
	router.POST("passengers", h.CreatePassenger)
	router.POST("passengers/default/clear", h.ClearDefault)
	router.PUT("passengers/:id", h.UpdatePassenger)
	router.DELETE("passengers/:id", h.DeletePassenger)
	router.POST("passengers/:id/default", h.SetDefault)
}

func (h *PassengerHandler) GetPassengers(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	passengers, err := h.service.List(c, principal)
	if err != nil {
		respondError(c, err, "GetPassengers")
		return
	}

	respond(c, http.StatusOK, passengers)
}

func (h *PassengerHandler) CreatePassenger(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req model.CreatePassengerRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	passenger, err := h.service.Create(c, principal, req)
	if err != nil {
		respondError(c, err, "CreatePassenger")
		return
	}

	respond(c, http.StatusCreated, passenger)
}

func (h *PassengerHandler) UpdatePassenger(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePassengerRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	passenger, err := h.service.Update(c, principal, id, req)
	if err != nil {
		respondError(c, err, "UpdatePassenger")
		return
	}

	respond(c, http.StatusOK, passenger)
}

func (h *PassengerHandler) DeletePassenger(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c, principal, id); err != nil {
		respondError(c, err, "DeletePassenger")
		return
	}

	respond(c, http.StatusOK, nil)
}

func (h *PassengerHandler) SetDefault(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.SetDefault(c, principal, id); err != nil {
		respondError(c, err, "SetDefaultPassenger")
		return
	}

	respond(c, http.StatusOK, nil)
}

func (h *PassengerHandler) ClearDefault(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	if err := h.service.ClearDefault(c, principal); err != nil {
		respondError(c, err, "ClearDefaultPassenger")
		return
	}

	respond(c, http.StatusOK, nil)
}
