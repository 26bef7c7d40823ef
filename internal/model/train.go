package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 乘車日期、售票日期的格式
const DateLayout = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD 日期(UTC)
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// SeatClass 座位等級
type SeatClass string

const (
	SeatClassBusiness SeatClass = "business"
	SeatClassFirst    SeatClass = "first"
	SeatClassSecond   SeatClass = "second"
)

// SeatClasses 依查詢與計價時使用的固定順序
var SeatClasses = []SeatClass{SeatClassBusiness, SeatClassFirst, SeatClassSecond}

func (s SeatClass) IsValid() bool {
	switch s {
	case SeatClassBusiness, SeatClassFirst, SeatClassSecond:
		return true
	}
	return false
}

// TrainStatus 車次營運狀態
type TrainStatus int

const (
	TrainStatusInactive TrainStatus = 0
	TrainStatusActive   TrainStatus = 1
)

type Train struct {
	ID                 int             `json:"id" db:"id"`
	TrainNumber        string          `json:"train_number" db:"train_number"`
	DepartureStation   string          `json:"departure_station" db:"departure_station"`
	ArrivalStation     string          `json:"arrival_station" db:"arrival_station"`
	DepartureTime      string          `json:"departure_time" db:"departure_time"`
	ArrivalTime        string          `json:"arrival_time" db:"arrival_time"`
	VehicleType        *string         `json:"vehicle_type,omitempty" db:"vehicle_type"`
	TotalSeatsBusiness int             `json:"total_seats_business" db:"total_seats_business"`
	TotalSeatsFirst    int             `json:"total_seats_first" db:"total_seats_first"`
	TotalSeatsSecond   int             `json:"total_seats_second" db:"total_seats_second"`
	PriceBusiness      decimal.Decimal `json:"price_business" db:"price_business"`
	PriceFirst         decimal.Decimal `json:"price_first" db:"price_first"`
	PriceSecond        decimal.Decimal `json:"price_second" db:"price_second"`
	Status             TrainStatus     `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

func (t *Train) IsActive() bool {
	return t.Status == TrainStatusActive
}

// SeatsFor 取得座位等級的總座位數，未知等級回傳 0
func (t *Train) SeatsFor(class SeatClass) int {
	switch class {
	case SeatClassBusiness:
		return t.TotalSeatsBusiness
	case SeatClassFirst:
		return t.TotalSeatsFirst
	case SeatClassSecond:
		return t.TotalSeatsSecond
	}
	return 0
}

// PriceFor 取得座位等級的單價，未知等級回傳 0
func (t *Train) PriceFor(class SeatClass) decimal.Decimal {
	switch class {
	case SeatClassBusiness:
		return t.PriceBusiness
	case SeatClassFirst:
		return t.PriceFirst
	case SeatClassSecond:
		return t.PriceSecond
	}
	return decimal.Zero
}

type TrainFilter struct {
	Keyword     string
	Status      *TrainStatus
	VehicleType string
	Page        Page
}

type UpdateTrainParams struct {
	DepartureStation   *string          `json:"departure_station"`
	ArrivalStation     *string          `json:"arrival_station"`
	DepartureTime      *string          `json:"departure_time"`
	ArrivalTime        *string          `json:"arrival_time"`
	VehicleType        *string          `json:"vehicle_type"`
	TotalSeatsBusiness *int             `json:"total_seats_business"`
	TotalSeatsFirst    *int             `json:"total_seats_first"`
	TotalSeatsSecond   *int             `json:"total_seats_second"`
	PriceBusiness      *decimal.Decimal `json:"price_business"`
	PriceFirst         *decimal.Decimal `json:"price_first"`
	PriceSecond        *decimal.Decimal `json:"price_second"`
	Status             *TrainStatus     `json:"status"`
}

type CreateTrainRequest struct {
	TrainNumber        string          `json:"train_number" binding:"required"`
	DepartureStation   string          `json:"departure_station" binding:"required"`
	ArrivalStation     string          `json:"arrival_station" binding:"required"`
	DepartureTime      string          `json:"departure_time" binding:"required"`
	ArrivalTime        string          `json:"arrival_time" binding:"required"`
	VehicleType        *string         `json:"vehicle_type"`
	TotalSeatsBusiness int             `json:"total_seats_business" binding:"min=0"`
	TotalSeatsFirst    int             `json:"total_seats_first" binding:"min=0"`
	TotalSeatsSecond   int             `json:"total_seats_second" binding:"min=0"`
	PriceBusiness      decimal.Decimal `json:"price_business"`
	PriceFirst         decimal.Decimal `json:"price_first"`
	PriceSecond        decimal.Decimal `json:"price_second"`
	Status             *TrainStatus    `json:"status"`
}

type TrainStopInput struct {
	StationName   string `json:"station_name" binding:"required"`
	StopOrder     int    `json:"stop_order" binding:"min=1"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
}

type SaveStopsRequest struct {
	Stops []TrainStopInput `json:"stops" binding:"dive"`
}

type TrainStop struct {
	ID            int    `json:"id" db:"id"`
	TrainID       int    `json:"train_id" db:"train_id"`
	StationName   string `json:"station_name" db:"station_name"`
	StopOrder     int    `json:"stop_order" db:"stop_order"`
	ArrivalTime   string `json:"arrival_time" db:"arrival_time"`
	DepartureTime string `json:"departure_time" db:"departure_time"`
}
