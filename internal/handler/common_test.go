package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/handler"
	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/service/mocks"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

var (
	alice = model.Principal{UserID: 1, Username: "alice", Role: model.RoleUser}
	root  = model.Principal{UserID: 99, Username: "root", Role: model.RoleAdmin}
)

// stubTokens 以固定 token 對應使用者
type stubTokens map[string]model.Principal

func (s stubTokens) Parse(raw string) (model.Principal, error) {
	p, ok := s[raw]
	if !ok {
		return model.Principal{}, apperrors.ErrUnauthorized
	}
	return p, nil
}

type testServer struct {
	router     *gin.Engine
	auth       *mocks.MockAuthService
	search     *mocks.MockTicketSearchService
	orders     *mocks.MockOrderService
	trains     *mocks.MockTrainService
	inventory  *mocks.MockInventoryService
	ticketSale *mocks.MockTicketSaleService
	users      *mocks.MockUserService
	passengers *mocks.MockPassengerService
}

func setupServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		auth:       mocks.NewMockAuthService(t),
		search:     mocks.NewMockTicketSearchService(t),
		orders:     mocks.NewMockOrderService(t),
		trains:     mocks.NewMockTrainService(t),
		inventory:  mocks.NewMockInventoryService(t),
		ticketSale: mocks.NewMockTicketSaleService(t),
		users:      mocks.NewMockUserService(t),
		passengers: mocks.NewMockPassengerService(t),
	}
	s.router = handler.NewRouter(handler.Handlers{
		Auth:       handler.NewAuthHandler(s.auth),
		Ticket:     handler.NewTicketHandler(s.search),
		Order:      handler.NewOrderHandler(s.orders),
		Train:      handler.NewTrainHandler(s.trains, s.inventory),
		TicketSale: handler.NewTicketSaleHandler(s.ticketSale),
		User:       handler.NewUserHandler(s.users),
		Passenger:  handler.NewPassengerHandler(s.passengers),
	}, stubTokens{userToken: alice, adminToken: root})
	return s
}

// do 以 token 身分發送請求；body 為 string 時原樣送出，其他型別轉 JSON
func (s *testServer) do(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	authorization := ""
	if token != "" {
		authorization = "Bearer " + token
	}
	return s.request(method, url, authorization, body)
}

func (s *testServer) request(method, url, authorization string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestPing(t *testing.T) {
	s := setupServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
