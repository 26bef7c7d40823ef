package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type TrainHandler struct {
	service   service.TrainService
	inventory service.InventoryService
}

func NewTrainHandler(service service.TrainService, inventory service.InventoryService) *TrainHandler {
	return &TrainHandler{service: service, inventory: inventory}
}

// RegisterAdminRoutes 車次、停靠站與庫存管理，需 admin 角色
func (h *TrainHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("trains", h.GetTrains)
	router.POST("trains", h.CreateTrain)
	router.GET("trains/:id", h.GetTrain)
	router.PUT("trains/:id", h.UpdateTrain)
	router.DELETE("trains/:id", h.DeleteTrain)
	router.GET("trains/:id/stops", h.GetStops)
	router.PUT("trains/:id/stops", h.SaveStops)
	router.GET("trains/:id/inventory", h.GetInventory)
}

func (h *TrainHandler) GetTrains(c *gin.Context) {
	var q struct {
		pageQuery
		Keyword     string `form:"keyword"`
		Status      *int   `form:"status"`
		VehicleType string `form:"vehicle_type"`
	}
	if err := BindQuery(c, &q); err != nil {
		return
	}

	filter := model.TrainFilter{Keyword: q.Keyword, VehicleType: q.VehicleType, Page: q.toPage()}
	if q.Status != nil {
		status := model.TrainStatus(*q.Status)
		filter.Status = &status
	}

	result, err := h.service.List(c, filter)
	if err != nil {
		respondError(c, err, "GetTrains")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *TrainHandler) GetTrain(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	train, err := h.service.Get(c, id)
	if err != nil {
		respondError(c, err, "GetTrain")
		return
	}

	respond(c, http.StatusOK, train)
}

func (h *TrainHandler) CreateTrain(c *gin.Context) {
	var req model.CreateTrainRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	train, err := h.service.Create(c, req)
	if err != nil {
		respondError(c, err, "CreateTrain")
		return
	}

	respond(c, http.StatusCreated, train)
}

func (h *TrainHandler) UpdateTrain(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var params model.UpdateTrainParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	train, err := h.service.Update(c, id, params)
	if err != nil {
		respondError(c, err, "UpdateTrain")
		return
	}

	respond(c, http.StatusOK, train)
}

func (h *TrainHandler) DeleteTrain(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c, id); err != nil {
		respondError(c, err, "DeleteTrain")
		return
	}

	respond(c, http.StatusOK, nil)
}

func (h *TrainHandler) GetStops(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	stops, err := h.service.ListStops(c, id)
	if err != nil {
		respondError(c, err, "GetStops")
		return
	}

	respond(c, http.StatusOK, stops)
}

func (h *TrainHandler) SaveStops(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SaveStopsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	stops, err := h.service.SaveStops(c, id, req.Stops)
	if err != nil {
		respondError(c, err, "SaveStops")
		return
	}

	respond(c, http.StatusOK, stops)
}

func (h *TrainHandler) GetInventory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var q struct {
		Date string `form:"date" binding:"required"`
	}
	if err := BindQuery(c, &q); err != nil {
		return
	}
	travelDate, err := model.ParseDate(q.Date)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid date")
		return
	}

	rows, err := h.inventory.ListByTrainDate(c, id, travelDate)
	if err != nil {
		respondError(c, err, "GetInventory")
		return
	}

	respond(c, http.StatusOK, rows)
}
