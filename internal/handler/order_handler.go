package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 使用者訂單路由，需已通過 AuthMiddleware
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("orders", h.CreateOrder)
	router.GET("orders", h.GetOrders)
	router.GET("orders/:id", h.GetOrder)
	router.PUT("orders/:id/pay", h.PayOrder)
	router.PUT("orders/:id/cancel", h.CancelOrder)
	router.PUT("orders/:id/refund", h.RefundOrder)
}

// RegisterAdminRoutes 後台訂單管理，需 admin 角色
func (h *OrderHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("orders", h.GetOrders)
	router.GET("orders/:id", h.GetOrder)
	router.PUT("orders/:id/cancel", h.CancelOrder)
	router.PUT("orders/:id/refund", h.RefundOrder)
	router.PUT("orders/:id/complete", h.CompleteOrder)
	router.GET("refunds", h.GetRefunds)
}

type orderListQuery struct {
	pageQuery
	dateRangeQuery
	OrderNumber string `form:"order_number"`
	TrainNumber string `form:"train_number"`
	Status      string `form:"status"`
	UserID      *int   `form:"user_id"`
}

type refundResult struct {
	Order  *model.Order        `json:"order"`
	Refund *model.RefundRecord `json:"refund"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req model.CreateOrderRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateOrder(c, principal, req)
	if err != nil {
		respondError(c, err, "CreateOrder")
		return
	}

	respond(c, http.StatusCreated, created)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var q orderListQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	start, end, err := q.parse()
	if err != nil {
		respondError(c, err, "GetOrders")
		return
	}

	filter := model.OrderFilter{
		OrderNumber:     q.OrderNumber,
		UserID:          q.UserID,
		TrainNumber:     q.TrainNumber,
		Status:          model.OrderStatus(q.Status),
		TravelDateStart: start,
		TravelDateEnd:   end,
		Page:            q.toPage(),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		respondMessage(c, http.StatusBadRequest, "Invalid status")
		return
	}

	result, err := h.service.ListOrders(c, principal, filter)
	if err != nil {
		respondError(c, err, "GetOrders")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c, principal, id)
	if err != nil {
		respondError(c, err, "GetOrder")
		return
	}

	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) PayOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.PayOrder(c, principal, id)
	if err != nil {
		respondError(c, err, "PayOrder")
		return
	}

	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.CancelOrder(c, principal, id)
	if err != nil {
		respondError(c, err, "CancelOrder")
		return
	}

	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) RefundOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// body 可省略，全部使用預設值
	var req model.RefundOrderRequest
	if c.Request.ContentLength > 0 {
		if err := BindJson(c, &req); err != nil {
			return
		}
	}

	order, refund, err := h.service.RefundOrder(c, principal, id, req)
	if err != nil {
		respondError(c, err, "RefundOrder")
		return
	}

	respond(c, http.StatusOK, refundResult{Order: order, Refund: refund})
}

func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.CompleteOrder(c, id)
	if err != nil {
		respondError(c, err, "CompleteOrder")
		return
	}

	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) GetRefunds(c *gin.Context) {
	var q struct {
		pageQuery
		OrderID *int `form:"order_id"`
	}
	if err := BindQuery(c, &q); err != nil {
		return
	}

	result, err := h.service.ListRefunds(c, model.RefundFilter{OrderID: q.OrderID, Page: q.toPage()})
	if err != nil {
		respondError(c, err, "GetRefunds")
		return
	}

	respond(c, http.StatusOK, result)
}
