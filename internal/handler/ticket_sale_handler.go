package handler

import (
	"bytes"
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketSaleHandler struct {
	service service.TicketSaleService
}

func NewTicketSaleHandler(service service.TicketSaleService) *TicketSaleHandler {
	return &TicketSaleHandler{service: service}
}

func (h *TicketSaleHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("ticket-sales", h.GetSales)
	router.POST("ticket-sales", h.CreateSale)
	router.GET("ticket-sales/stats", h.GetStats)
	router.GET("ticket-sales/summary", h.GetSummary)
	router.GET("ticket-sales/refund-trend", h.GetRefundTrend)
	router.GET("ticket-sales/export.csv", h.ExportCSV)
}

type saleListQuery struct {
	pageQuery
	dateRangeQuery
	TrainNumber string `form:"train_number"`
	Destination string `form:"destination"`
	GroupBy     string `form:"group_by"`
	// Limit 只作用在 stats，取前 N 名
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

func (q saleListQuery) filter() (model.TicketSaleFilter, error) {
	start, end, err := q.parse()
	if err != nil {
		return model.TicketSaleFilter{}, err
	}
	return model.TicketSaleFilter{
		StartDate:   start,
		EndDate:     end,
		TrainNumber: q.TrainNumber,
		Destination: q.Destination,
		Limit:       q.Limit,
		Page:        q.toPage(),
	}, nil
}

// bindSaleFilter 綁定並解析查詢條件，失敗時已回應錯誤
func bindSaleFilter(c *gin.Context, operation string) (saleListQuery, model.TicketSaleFilter, bool) {
	var q saleListQuery
	if err := BindQuery(c, &q); err != nil {
		return q, model.TicketSaleFilter{}, false
	}
	filter, err := q.filter()
	if err != nil {
		respondError(c, err, operation)
		return q, model.TicketSaleFilter{}, false
	}
	return q, filter, true
}

func (h *TicketSaleHandler) GetSales(c *gin.Context) {
	_, filter, ok := bindSaleFilter(c, "GetSales")
	if !ok {
		return
	}

	result, err := h.service.List(c, filter)
	if err != nil {
		respondError(c, err, "GetSales")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *TicketSaleHandler) CreateSale(c *gin.Context) {
	var req model.CreateTicketSaleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	record, err := h.service.Create(c, req)
	if err != nil {
		respondError(c, err, "CreateSale")
		return
	}

	respond(c, http.StatusCreated, record)
}

func (h *TicketSaleHandler) GetStats(c *gin.Context) {
	q, filter, ok := bindSaleFilter(c, "GetStats")
	if !ok {
		return
	}

	stats, err := h.service.Stats(c, model.SaleGroupBy(q.GroupBy), filter)
	if err != nil {
		respondError(c, err, "GetStats")
		return
	}

	respond(c, http.StatusOK, stats)
}

func (h *TicketSaleHandler) GetSummary(c *gin.Context) {
	_, filter, ok := bindSaleFilter(c, "GetSummary")
	if !ok {
		return
	}

	summary, err := h.service.Summary(c, filter)
	if err != nil {
		respondError(c, err, "GetSummary")
		return
	}

	respond(c, http.StatusOK, summary)
}

func (h *TicketSaleHandler) GetRefundTrend(c *gin.Context) {
	_, filter, ok := bindSaleFilter(c, "GetRefundTrend")
	if !ok {
		return
	}

	trend, err := h.service.RefundTrend(c, filter)
	if err != nil {
		respondError(c, err, "GetRefundTrend")
		return
	}

	respond(c, http.StatusOK, trend)
}

func (h *TicketSaleHandler) ExportCSV(c *gin.Context) {
	_, filter, ok := bindSaleFilter(c, "ExportCSV")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c, filter, &buf); err != nil {
		respondError(c, err, "ExportCSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ticket_sales.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
