package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:      {OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded},
		OrderStatusCompleted: {OrderStatusRefunded},
	}
	all := []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, OrderStatus("shipped").CanTransitionTo(OrderStatusPaid))
}

func TestOrderStatus_Predicates(t *testing.T) {
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())

	assert.True(t, OrderStatusPaid.HoldsInventory())
	assert.True(t, OrderStatusCompleted.HoldsInventory())
	assert.False(t, OrderStatusPending.HoldsInventory())

	assert.False(t, OrderStatus("").IsValid())
}

func TestCreateOrderRequest_TicketCount(t *testing.T) {
	one, three := 1, 3
	assert.Equal(t, 1, CreateOrderRequest{}.TicketCount())
	assert.Equal(t, 3, CreateOrderRequest{Count: &three}.TicketCount())
	assert.Equal(t, 2, CreateOrderRequest{Passengers: []Passenger{{}, {}}}.TicketCount())
	// 乘客清單優先於 count
	assert.Equal(t, 3, CreateOrderRequest{Count: &one, Passengers: []Passenger{{}, {}, {}}}.TicketCount())
	assert.Equal(t, 1, CreateOrderRequest{Count: &three, Passengers: []Passenger{{}}}.TicketCount())
}

func TestTicketInventory_Available(t *testing.T) {
	assert.Equal(t, 5, (&TicketInventory{TotalSeats: 10, SoldSeats: 3, LockedSeats: 2}).Available())
	assert.Equal(t, 0, (&TicketInventory{TotalSeats: 2, SoldSeats: 3}).Available())
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PageSize: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Page: 3, PageSize: MaxPageSize}, Page{Page: 3, PageSize: 1000}.Normalize())
	assert.Equal(t, 40, Page{Page: 3, PageSize: 20}.Offset())
}

func TestComputeRefund(t *testing.T) {
	fee, refund := ComputeRefund(decimal.RequireFromString("200.00"), decimal.NewFromInt(5))
	assert.Equal(t, "10.00", fee.StringFixed(2))
	assert.Equal(t, "190.00", refund.StringFixed(2))

	// 四捨五入到分
	fee, refund = ComputeRefund(decimal.RequireFromString("33.33"), decimal.RequireFromString("7.5"))
	assert.Equal(t, "2.50", fee.StringFixed(2))
	assert.Equal(t, "30.83", refund.StringFixed(2))
}

func TestSaleRecordsFromOrder(t *testing.T) {
	order := &Order{
		ID:          4,
		TrainID:     1,
		TrainNumber: "G1",
		ToStation:   "上海虹桥",
		SeatClass:   SeatClassSecond,
		TicketCount: 2,
		TotalAmount: decimal.RequireFromString("200.00"),
	}

	sale := NewSaleFromOrder(order)
	assert.Equal(t, 2, sale.TicketCount)
	assert.True(t, sale.ActualAmount.Equal(order.TotalAmount))
	assert.Equal(t, 4, *sale.OrderID)

	reversal := NewReversalFromOrder(order, "南京南", decimal.RequireFromString("190.00"))
	assert.Equal(t, -2, reversal.TicketCount)
	assert.Equal(t, "-190.00", reversal.ActualAmount.StringFixed(2))
	assert.Equal(t, "南京南", reversal.Destination)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	assert.NoError(t, err)
	assert.Equal(t, "2026-02-28", d.Format(DateLayout))

	for _, bad := range []string{"2026-02-30", "2026/02/28", ""} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrincipal_CanAccess(t *testing.T) {
	user := Principal{UserID: 1, Role: RoleUser}
	admin := Principal{UserID: 9, Role: RoleAdmin}

	assert.True(t, user.CanAccess(1))
	assert.False(t, user.CanAccess(2))
	assert.True(t, admin.CanAccess(2))
}
