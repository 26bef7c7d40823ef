package handler

import (
	"net/http"

	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *AuthHandler
	Ticket     *TicketHandler
	Order      *OrderHandler
	Train      *TrainHandler
	TicketSale *TicketSaleHandler
	User       *UserHandler
	Passenger  *PassengerHandler
}

// NewRouter 組裝公開、使用者與後台三組路由
func NewRouter(h Handlers, tokens TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/api/v1")
	h.Auth.RegisterRoutes(public)
	h.Ticket.RegisterRoutes(public)

	user := r.Group("/api/v1", AuthMiddleware(tokens))
	h.Order.RegisterRoutes(user)
	h.User.RegisterRoutes(user)
	h.Passenger.RegisterRoutes(user)

	admin := r.Group("/api/v1/admin", AuthMiddleware(tokens), RequireRole(model.RoleAdmin))
	h.Order.RegisterAdminRoutes(admin)
	h.Train.RegisterAdminRoutes(admin)
	h.TicketSale.RegisterAdminRoutes(admin)
	h.User.RegisterAdminRoutes(admin)

	return r
}
