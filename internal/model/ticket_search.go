package model

import "github.com/shopspring/decimal"

type TicketSearchParams struct {
	Date        string    `form:"date" binding:"required"`
	Departure   string    `form:"departure"`
	Arrival     string    `form:"arrival"`
	TrainNumber string    `form:"train_number"`
	SeatClass   SeatClass `form:"seat_class"`
}

// TicketSearchResult 查詢結果；車站與時間為實際乘車區段
type TicketSearchResult struct {
	TrainID          int             `json:"train_id"`
	TrainNumber      string          `json:"train_number"`
	DepartureStation string          `json:"departure_station"`
	ArrivalStation   string          `json:"arrival_station"`
	DepartureTime    string          `json:"departure_time"`
	ArrivalTime      string          `json:"arrival_time"`
	VehicleType      *string         `json:"vehicle_type,omitempty"`
	PriceFrom        decimal.Decimal `json:"price_from"`
	HasTicket        bool            `json:"has_ticket"`
}

type SeatAvailability struct {
	SeatClass SeatClass       `json:"seat_class"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
}

type TicketDetail struct {
	TicketSearchResult
	Seats []SeatAvailability `json:"seats"`
}

type TicketDetailParams struct {
	Date      string `form:"date" binding:"required"`
	Departure string `form:"departure"`
	Arrival   string `form:"arrival"`
}
