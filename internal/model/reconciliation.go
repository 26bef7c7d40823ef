package model

import "time"

// ReconciliationKind 待補償的步驟
type ReconciliationKind string

const (
	ReconcileReplenish   ReconciliationKind = "replenish"
	ReconcileSaleReverse ReconciliationKind = "sale_reversal"
)

// ReconciliationEvent 取消/退票後庫存回補或沖銷失敗時發出，由 worker 重試
type ReconciliationEvent struct {
	Kind        ReconciliationKind `json:"kind"`
	OrderID     int                `json:"order_id"`
	TrainID     int                `json:"train_id"`
	TravelDate  time.Time          `json:"travel_date"`
	SeatClass   SeatClass          `json:"seat_class"`
	TicketCount int                `json:"ticket_count"`
	Sale        *TicketSaleRecord  `json:"sale,omitempty"`
	Cause       string             `json:"cause"`
	OccurredAt  time.Time          `json:"occurred_at"`
}
