package apperrors

import "errors"

var (
	ErrTrainNotFound     = errors.New("train not found")
	ErrStopNotFound      = errors.New("train stop not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrSaleNotFound      = errors.New("ticket sale not found")
	ErrPassengerNotFound = errors.New("passenger not found")

	ErrInvalidPurchase       = errors.New("invalid purchase")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidInput          = errors.New("invalid input")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")

	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInternalServerError = errors.New("internal server error")
)
