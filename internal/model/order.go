package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus 訂單狀態類型
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// IsValid 驗證狀態是否有效
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// IsTerminal cancelled 與 refunded 為終止狀態
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// HoldsInventory 已扣減庫存並寫入售票紀錄的狀態
func (s OrderStatus) HoldsInventory() bool {
	return s == OrderStatusPaid || s == OrderStatusCompleted
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:      {OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded},
		OrderStatusCompleted: {OrderStatusRefunded},
		OrderStatusCancelled: {}, // 不能轉換到任何狀態
		OrderStatusRefunded:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Order 訂單模型；TrainNumber、TicketPrice 為下單當下的快照
type Order struct {
	ID              int             `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	UserID          int             `json:"user_id" db:"user_id"`
	TrainID         int             `json:"train_id" db:"train_id"`
	TrainNumber     string          `json:"train_number" db:"train_number"`
	TravelDate      time.Time       `json:"travel_date" db:"travel_date"`
	FromStation     string          `json:"from_station" db:"from_station"`
	ToStation       string          `json:"to_station" db:"to_station"`
	SeatClass       SeatClass       `json:"seat_class" db:"seat_class"`
	TicketCount     int             `json:"ticket_count" db:"ticket_count"`
	PassengerName   *string         `json:"passenger_name,omitempty" db:"passenger_name"`
	PassengerIDCard *string         `json:"passenger_id_card,omitempty" db:"passenger_id_card"`
	TicketPrice     decimal.Decimal `json:"ticket_price" db:"ticket_price"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentTime     *time.Time      `json:"payment_time,omitempty" db:"payment_time"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

func (o *Order) InventoryKey() InventoryKey {
	return InventoryKey{TrainID: o.TrainID, TravelDate: o.TravelDate, SeatClass: o.SeatClass}
}

type Passenger struct {
	Name   string `json:"name" binding:"required"`
	IDCard string `json:"id_card" binding:"required"`
}

// CreateOrderRequest 創建訂單請求；帶了 Passengers 時張數以乘客數為準，否則用 Count，預設 1
type CreateOrderRequest struct {
	TrainID    int         `json:"train_id" binding:"required"`
	Date       string      `json:"date" binding:"required"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	SeatClass  SeatClass   `json:"seat_class" binding:"required"`
	Count      *int        `json:"count"`
	Passengers []Passenger `json:"passengers" binding:"omitempty,dive"`
	// 常用乘車人 id，與 Passengers 擇一
	PassengerIDs    []int  `json:"passenger_ids"`
	PassengerName   string `json:"passenger_name"`
	PassengerIDCard string `json:"passenger_id_card"`
}

// TicketCount 決定購票張數
func (r CreateOrderRequest) TicketCount() int {
	if len(r.Passengers) > 0 {
		return len(r.Passengers)
	}
	if r.Count != nil {
		return *r.Count
	}
	return 1
}

// RefundOrderRequest 退票參數；ServiceFeeRate 為百分比
type RefundOrderRequest struct {
	ServiceFeeRate *float64 `json:"service_fee_rate"`
	RefundReason   string   `json:"refund_reason"`
	Destination    string   `json:"destination"`
	Route          string   `json:"route"`
	VehicleType    string   `json:"vehicle_type"`
}

type OrderFilter struct {
	OrderNumber     string
	UserID          *int
	TrainNumber     string
	Status          OrderStatus
	TravelDateStart *time.Time
	TravelDateEnd   *time.Time
	Page            Page
}
