package model

import "time"

// SavedPassenger 使用者常用乘車人
type SavedPassenger struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	IDCard    string    `json:"id_card" db:"id_card"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p *SavedPassenger) ToPassenger() Passenger {
	return Passenger{Name: p.Name, IDCard: p.IDCard}
}

type CreatePassengerRequest struct {
	Name   string `json:"name" binding:"required,max=50"`
	IDCard string `json:"id_card" binding:"required,max=30"`
	Phone  string `json:"phone" binding:"omitempty,max=20"`
}

type UpdatePassengerRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50"`
	IDCard *string `json:"id_card" binding:"omitempty,min=1,max=30"`
	Phone  *string `json:"phone" binding:"omitempty,max=20"`
}
