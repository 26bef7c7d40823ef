package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketSaleRecord 售票流水，只新增不修改；沖銷以負數張數與金額表示
type TicketSaleRecord struct {
	ID           int             `json:"id" db:"id"`
	SaleDate     time.Time       `json:"sale_date" db:"sale_date"`
	TrainID      int             `json:"train_id" db:"train_id"`
	TrainNumber  string          `json:"train_number" db:"train_number"`
	Destination  string          `json:"destination" db:"destination"`
	SeatClass    SeatClass       `json:"seat_class" db:"seat_class"`
	TicketCount  int             `json:"ticket_count" db:"ticket_count"`
	ActualAmount decimal.Decimal `json:"actual_amount" db:"actual_amount"`
	OrderID      *int            `json:"order_id,omitempty" db:"order_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// NewSaleFromOrder 依訂單產生正向售票紀錄
func NewSaleFromOrder(order *Order) *TicketSaleRecord {
	orderID := order.ID
	return &TicketSaleRecord{
		SaleDate:     order.TravelDate,
		TrainID:      order.TrainID,
		TrainNumber:  order.TrainNumber,
		Destination:  order.ToStation,
		SeatClass:    order.SeatClass,
		TicketCount:  order.TicketCount,
		ActualAmount: order.TotalAmount,
		OrderID:      &orderID,
	}
}

// NewReversalFromOrder 依訂單產生沖銷紀錄，張數全額沖回、金額為 -amount
func NewReversalFromOrder(order *Order, destination string, amount decimal.Decimal) *TicketSaleRecord {
	orderID := order.ID
	return &TicketSaleRecord{
		SaleDate:     order.TravelDate,
		TrainID:      order.TrainID,
		TrainNumber:  order.TrainNumber,
		Destination:  destination,
		SeatClass:    order.SeatClass,
		TicketCount:  -order.TicketCount,
		ActualAmount: amount.Neg(),
		OrderID:      &orderID,
	}
}

type TicketSaleFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	TrainNumber string
	Destination string
	// Limit 統計取前 N 筆，0 表示全部
	Limit int
	Page  Page
}

// SaleGroupBy 統計分組方式
type SaleGroupBy string

const (
	SaleGroupByDate        SaleGroupBy = "date"
	SaleGroupByTrain       SaleGroupBy = "train"
	SaleGroupByDestination SaleGroupBy = "destination"
)

func (g SaleGroupBy) IsValid() bool {
	switch g {
	case SaleGroupByDate, SaleGroupByTrain, SaleGroupByDestination:
		return true
	}
	return false
}

type SaleStat struct {
	Key    string          `json:"key"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// RefundTrendPoint 每日退票筆數與金額
type RefundTrendPoint struct {
	Date   string          `json:"date"`
	Count  int             `json:"refund_count"`
	Amount decimal.Decimal `json:"refund_amount"`
}

type SalesSummary struct {
	Users       int             `json:"users"`
	Orders      int             `json:"orders"`
	Refunds     int             `json:"refunds"`
	SalesAmount decimal.Decimal `json:"sales_amount"`
}

// CreateTicketSaleRequest 後台手動補登售票紀錄
type CreateTicketSaleRequest struct {
	SaleDate     string          `json:"sale_date" binding:"required"`
	TrainID      int             `json:"train_id" binding:"required"`
	TrainNumber  string          `json:"train_number" binding:"required"`
	Destination  string          `json:"destination"`
	SeatClass    SeatClass       `json:"seat_class" binding:"required"`
	TicketCount  int             `json:"ticket_count" binding:"required,min=1"`
	ActualAmount decimal.Decimal `json:"actual_amount"`
	OrderID      *int            `json:"order_id"`
}
