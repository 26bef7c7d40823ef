package model

import "time"

// InventoryKey 庫存帳的唯一鍵
type InventoryKey struct {
	TrainID    int
	TravelDate time.Time
	SeatClass  SeatClass
}

// TicketInventory 每個(車次, 日期, 座位等級)一筆，首次扣減或回補時建立
type TicketInventory struct {
	ID          int       `json:"id" db:"id"`
	TrainID     int       `json:"train_id" db:"train_id"`
	TravelDate  time.Time `json:"travel_date" db:"travel_date"`
	SeatClass   SeatClass `json:"seat_class" db:"seat_class"`
	TotalSeats  int       `json:"total_seats" db:"total_seats"`
	SoldSeats   int       `json:"sold_seats" db:"sold_seats"`
	LockedSeats int       `json:"locked_seats" db:"locked_seats"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Available 可售數 = total - sold - locked，最小為 0
func (i *TicketInventory) Available() int {
	return max(0, i.TotalSeats-i.SoldSeats-i.LockedSeats)
}

func (i *TicketInventory) Key() InventoryKey {
	return InventoryKey{TrainID: i.TrainID, TravelDate: i.TravelDate, SeatClass: i.SeatClass}
}
