// Package mocks 提供 service 介面的 testify mock
package mocks

import "github.com/Objecteee/ticket-on-line/internal/service"

var (
	_ service.OrderService          = (*MockOrderService)(nil)
	_ service.InventoryService      = (*MockInventoryService)(nil)
	_ service.TicketSearchService   = (*MockTicketSearchService)(nil)
	_ service.ReconciliationService = (*MockReconciliationService)(nil)
	_ service.TicketSaleService     = (*MockTicketSaleService)(nil)
	_ service.AuthService           = (*MockAuthService)(nil)
	_ service.TrainService          = (*MockTrainService)(nil)
	_ service.UserService           = (*MockUserService)(nil)
	_ service.PassengerService      = (*MockPassengerService)(nil)
)
