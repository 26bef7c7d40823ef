package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTrain(t *testing.T) {
	body := map[string]interface{}{
		"train_number":       "G101",
		"departure_station":  "北京南",
		"arrival_station":    "上海虹桥",
		"departure_time":     "07:00",
		"arrival_time":       "11:38",
		"total_seats_second": 500,
		"price_second":       "553.00",
	}

	t.Run("Success", func(t *testing.T) {
		s := setupServer(t)
		s.trains.On("Create", mock.Anything, mock.MatchedBy(func(req model.CreateTrainRequest) bool {
			return req.TrainNumber == "G101" && req.TotalSeatsSecond == 500 && req.PriceSecond.String() == "553"
		})).Return(&model.Train{ID: 1, TrainNumber: "G101"}, nil).Once()

		w := s.do(http.MethodPost, "/api/v1/admin/trains", adminToken, body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Failed - duplicate", func(t *testing.T) {
		s := setupServer(t)
		s.trains.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.ErrConflict).Once()

		w := s.do(http.MethodPost, "/api/v1/admin/trains", adminToken, body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateTrain_PartialFields(t *testing.T) {
	s := setupServer(t)
	s.trains.On("Update", mock.Anything, 4, mock.MatchedBy(func(p model.UpdateTrainParams) bool {
		return p.Status != nil && *p.Status == model.TrainStatusInactive && p.PriceFirst == nil
	})).Return(&model.Train{ID: 4, Status: model.TrainStatusInactive}, nil).Once()

	w := s.do(http.MethodPut, "/api/v1/admin/trains/4", adminToken, map[string]interface{}{"status": 0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteTrain_NotFound(t *testing.T) {
	s := setupServer(t)
	s.trains.On("Delete", mock.Anything, 4).Return(apperrors.ErrTrainNotFound).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/trains/4", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTrain_Referenced(t *testing.T) {
	s := setupServer(t)
	s.trains.On("Delete", mock.Anything, 4).Return(apperrors.ErrConflict).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/trains/4", adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSaveStops(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := setupServer(t)
		s.trains.On("SaveStops", mock.Anything, 4, []model.TrainStopInput{
			{StationName: "北京南", StopOrder: 1, DepartureTime: "07:00"},
			{StationName: "上海虹桥", StopOrder: 2, ArrivalTime: "11:38"},
		}).Return([]*model.TrainStop{{ID: 1}, {ID: 2}}, nil).Once()

		w := s.do(http.MethodPut, "/api/v1/admin/trains/4/stops", adminToken, map[string]interface{}{
			"stops": []map[string]interface{}{
				{"station_name": "北京南", "stop_order": 1, "departure_time": "07:00"},
				{"station_name": "上海虹桥", "stop_order": 2, "arrival_time": "11:38"},
			},
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - stop without name", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(http.MethodPut, "/api/v1/admin/trains/4/stops", adminToken, map[string]interface{}{
			"stops": []map[string]interface{}{{"stop_order": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetInventory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := setupServer(t)
		date := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		s.inventory.On("ListByTrainDate", mock.Anything, 4, date).Return([]*model.TicketInventory{
			{TrainID: 4, TravelDate: date, SeatClass: model.SeatClassSecond, TotalSeats: 10, SoldSeats: 3},
		}, nil).Once()

		w := s.do(http.MethodGet, "/api/v1/admin/trains/4/inventory?date=2026-11-01", adminToken, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var rows []model.TicketInventory
		decode(t, w, &rows)
		require.Len(t, rows, 1)
		assert.Equal(t, 7, rows[0].Available())
	})

	t.Run("Failed - invalid date", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(http.MethodGet, "/api/v1/admin/trains/4/inventory?date=soon", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
