package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundRecord 退票紀錄，保存退票當下的行程快照與手續費計算結果
type RefundRecord struct {
	ID             int             `json:"id" db:"id"`
	OrderID        int             `json:"order_id" db:"order_id"`
	TrainID        int             `json:"train_id" db:"train_id"`
	TrainNumber    string          `json:"train_number" db:"train_number"`
	TravelDate     time.Time       `json:"travel_date" db:"travel_date"`
	SeatClass      SeatClass       `json:"seat_class" db:"seat_class"`
	Destination    string          `json:"destination" db:"destination"`
	Route          *string         `json:"route,omitempty" db:"route"`
	VehicleType    *string         `json:"vehicle_type,omitempty" db:"vehicle_type"`
	TicketPrice    decimal.Decimal `json:"ticket_price" db:"ticket_price"`
	TicketCount    int             `json:"ticket_count" db:"ticket_count"`
	ServiceFeeRate decimal.Decimal `json:"service_fee_rate" db:"service_fee_rate"`
	ServiceFee     decimal.Decimal `json:"service_fee" db:"service_fee"`
	RefundAmount   decimal.Decimal `json:"refund_amount" db:"refund_amount"`
	RefundReason   *string         `json:"refund_reason,omitempty" db:"refund_reason"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

var hundred = decimal.NewFromInt(100)

// ComputeRefund 手續費 = total * rate / 100 (四捨五入到分)，退款 = total - 手續費
func ComputeRefund(total, rate decimal.Decimal) (serviceFee, refundAmount decimal.Decimal) {
	serviceFee = total.Mul(rate).Div(hundred).Round(2)
	refundAmount = total.Sub(serviceFee)
	return serviceFee, refundAmount
}

type RefundFilter struct {
	OrderID *int
	Page    Page
}
