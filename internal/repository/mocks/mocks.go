// Package mocks 提供 repository 介面的 testify mock
package mocks

import "github.com/Objecteee/ticket-on-line/internal/repository"

var (
	_ repository.TrainRepository      = (*MockTrainRepository)(nil)
	_ repository.TrainStopRepository  = (*MockTrainStopRepository)(nil)
	_ repository.InventoryRepository  = (*MockInventoryRepository)(nil)
	_ repository.OrderRepository      = (*MockOrderRepository)(nil)
	_ repository.TicketSaleRepository = (*MockTicketSaleRepository)(nil)
	_ repository.RefundRepository     = (*MockRefundRepository)(nil)
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.PassengerRepository  = (*MockPassengerRepository)(nil)
)
