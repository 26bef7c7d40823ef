package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 統一回應格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Code: statusCode, Message: "ok", Data: data})
}

func respondMessage(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Response{Code: statusCode, Message: message})
}

// respondError 依 sentinel error 對應 HTTP 狀態碼
func respondError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, apperrors.ErrTrainNotFound),
		errors.Is(err, apperrors.ErrStopNotFound),
		errors.Is(err, apperrors.ErrOrderNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrInventoryNotFound),
		errors.Is(err, apperrors.ErrSaleNotFound),
		errors.Is(err, apperrors.ErrPassengerNotFound):
		status, message = http.StatusNotFound, notFoundMessage(err)
	case errors.Is(err, apperrors.ErrInvalidPurchase):
		status, message = http.StatusBadRequest, "Invalid purchase"
	case errors.Is(err, apperrors.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		status, message = http.StatusConflict, "Insufficient inventory"
	case errors.Is(err, apperrors.ErrInvalidOrderStatus):
		status, message = http.StatusConflict, "Invalid order status"
	case errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	default:
		log.Error("Unexpected error")
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Warn(message)
	respondMessage(c, status, message)
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTrainNotFound):
		return "Train not found"
	case errors.Is(err, apperrors.ErrStopNotFound):
		return "Segment not found"
	case errors.Is(err, apperrors.ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, apperrors.ErrSaleNotFound):
		return "Sale record not found"
	case errors.Is(err, apperrors.ErrPassengerNotFound):
		return "Passenger not found"
	}
	return "Inventory not found"
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request format")
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request format")
		return err
	}
	return nil
}

// paramID 解析路徑上的正整數 id
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q pageQuery) toPage() model.Page {
	return model.Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
}

// dateRangeQuery 查詢條件中的日期區間，格式 YYYY-MM-DD
type dateRangeQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (q dateRangeQuery) parse() (start, end *time.Time, err error) {
	if q.StartDate != "" {
		t, err := model.ParseDate(q.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("start_date %q: %w", q.StartDate, apperrors.ErrInvalidInput)
		}
		start = &t
	}
	if q.EndDate != "" {
		t, err := model.ParseDate(q.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("end_date %q: %w", q.EndDate, apperrors.ErrInvalidInput)
		}
		end = &t
	}
	return start, end, nil
}
