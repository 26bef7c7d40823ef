package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchTickets(t *testing.T) {
	t.Run("Success - public", func(t *testing.T) {
		s := setupServer(t)
		s.search.On("SearchTickets", mock.Anything, model.TicketSearchParams{
			Date:      "2026-11-01",
			Departure: "北京南",
			Arrival:   "上海虹桥",
		}).Return([]*model.TicketSearchResult{{
			TrainID:          1,
			TrainNumber:      "G1",
			DepartureStation: "北京南",
			ArrivalStation:   "上海虹桥",
			PriceFrom:        decimal.RequireFromString("553.00"),
			HasTicket:        true,
		}}, nil).Once()

		w := s.do(http.MethodGet, "/api/v1/tickets/search?"+url.Values{"date": {"2026-11-01"}, "departure": {"北京南"}, "arrival": {"上海虹桥"}}.Encode(), "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var results []model.TicketSearchResult
		decode(t, w, &results)
		require.Len(t, results, 1)
		assert.Equal(t, "G1", results[0].TrainNumber)
		assert.True(t, results[0].HasTicket)
	})

	t.Run("Failed - date required", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(http.MethodGet, "/api/v1/tickets/search?departure=beijing", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - invalid input", func(t *testing.T) {
		s := setupServer(t)
		s.search.On("SearchTickets", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidInput).Once()

		w := s.do(http.MethodGet, "/api/v1/tickets/search?date=11-01", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTicketDetail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := setupServer(t)
		s.search.On("GetTicketDetail", mock.Anything, 3, model.TicketDetailParams{Date: "2026-11-01"}).
			Return(&model.TicketDetail{
				TicketSearchResult: model.TicketSearchResult{TrainID: 3, TrainNumber: "D3"},
				Seats:              []model.SeatAvailability{{SeatClass: model.SeatClassSecond, Available: 4}},
			}, nil).Once()

		w := s.do(http.MethodGet, "/api/v1/tickets/3?date=2026-11-01", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var detail model.TicketDetail
		decode(t, w, &detail)
		assert.Equal(t, "D3", detail.TrainNumber)
		require.Len(t, detail.Seats, 1)
		assert.Equal(t, 4, detail.Seats[0].Available)
	})

	t.Run("Failed - segment not found", func(t *testing.T) {
		s := setupServer(t)
		s.search.On("GetTicketDetail", mock.Anything, 3, mock.Anything).Return(nil, apperrors.ErrStopNotFound).Once()

		w := s.do(http.MethodGet, "/api/v1/tickets/3?"+url.Values{"date": {"2026-11-01"}, "departure": {"上海"}, "arrival": {"北京"}}.Encode(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Segment not found", decode(t, w, nil).Message)
	})

	t.Run("Failed - invalid train id", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(http.MethodGet, "/api/v1/tickets/x?date=2026-11-01", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
