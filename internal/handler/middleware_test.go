package handler_test

import (
	"net/http"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/handler"
	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthMiddleware_Rejects(t *testing.T) {
	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer ",
		"unknown token":  "Bearer forged",
	} {
		t.Run(name, func(t *testing.T) {
			s := setupServer(t)

			w := s.request(http.MethodGet, "/api/v1/orders", header, nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, http.StatusUnauthorized, decode(t, w, nil).Code)
		})
	}
}

func TestAuthMiddleware_SetsPrincipal(t *testing.T) {
	s := setupServer(t)
	s.orders.On("ListOrders", mock.Anything, alice, mock.Anything).
		Return(&model.PageResult[*model.Order]{List: []*model.Order{}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/api/v1/admin/trains", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.trains.On("List", mock.Anything, mock.Anything).
		Return(&model.PageResult[*model.Train]{List: []*model.Train{}}, nil).Once()
	w = s.do(http.MethodGet, "/api/v1/admin/trains", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	s := setupServer(t)
	s.router.GET("/bare", handler.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := s.do(http.MethodGet, "/bare", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
