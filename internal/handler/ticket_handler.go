package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketSearchService
}

func NewTicketHandler(service service.TicketSearchService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("tickets/search", h.SearchTickets)
	router.GET("tickets/:trainId", h.GetTicketDetail)
}

func (h *TicketHandler) SearchTickets(c *gin.Context) {
	var params model.TicketSearchParams
	if err := BindQuery(c, &params); err != nil {
		return
	}

	results, err := h.service.SearchTickets(c, params)
	if err != nil {
		respondError(c, err, "SearchTickets")
		return
	}

	respond(c, http.StatusOK, results)
}

func (h *TicketHandler) GetTicketDetail(c *gin.Context) {
	trainID, ok := paramID(c, "trainId")
	if !ok {
		return
	}

	var params model.TicketDetailParams
	if err := BindQuery(c, &params); err != nil {
		return
	}

	detail, err := h.service.GetTicketDetail(c, trainID, params)
	if err != nil {
		respondError(c, err, "GetTicketDetail")
		return
	}

	respond(c, http.StatusOK, detail)
}
