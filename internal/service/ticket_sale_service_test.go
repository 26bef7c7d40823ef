package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	repoMocks "github.com/Objecteee/ticket-on-line/internal/repository/mocks"
	"github.com/Objecteee/ticket-on-line/internal/service"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type saleMocks struct {
	saleRepo   *repoMocks.MockTicketSaleRepository
	trainRepo  *repoMocks.MockTrainRepository
	userRepo   *repoMocks.MockUserRepository
	orderRepo  *repoMocks.MockOrderRepository
	refundRepo *repoMocks.MockRefundRepository
}

func setupTicketSaleService(t *testing.T) (service.TicketSaleService, saleMocks) {
	m := saleMocks{
		saleRepo:   repoMocks.NewMockTicketSaleRepository(t),
		trainRepo:  repoMocks.NewMockTrainRepository(t),
		userRepo:   repoMocks.NewMockUserRepository(t),
		orderRepo:  repoMocks.NewMockOrderRepository(t),
		refundRepo: repoMocks.NewMockRefundRepository(t),
	}
	return service.NewTicketSaleService(m.saleRepo, m.trainRepo, m.userRepo, m.orderRepo, m.refundRepo), m
}

func TestTicketSaleService_Create(t *testing.T) {
	ctx := context.Background()
	base := model.CreateTicketSaleRequest{
		SaleDate:    "2026-11-01",
		TrainID:     7,
		TrainNumber: "G7",
		SeatClass:   model.SeatClassFirst,
		TicketCount: 2,
	}

	t.Run("Success - defaults destination and amount", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.trainRepo.On("FindByID", ctx, 7).Return(activeTrain(), nil).Once()
		m.saleRepo.On("Create", ctx, mock.MatchedBy(func(r *model.TicketSaleRecord) bool {
			return r.Destination == "上海虹桥" &&
				r.ActualAmount.Equal(decimal.RequireFromString("501.00")) &&
				r.TicketCount == 2 &&
				r.OrderID == nil
		})).Return(&model.TicketSaleRecord{ID: 1}, nil).Once()

		record, err := svc.Create(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, 1, record.ID)
	})

	t.Run("Failed - train number mismatch", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.trainRepo.On("FindByID", ctx, 7).Return(activeTrain(), nil).Once()
		req := base
		req.TrainNumber = "D7"

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - destination is not the terminal", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.trainRepo.On("FindByID", ctx, 7).Return(activeTrain(), nil).Once()
		req := base
		req.Destination = "南京南"

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - amount does not match price", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.trainRepo.On("FindByID", ctx, 7).Return(activeTrain(), nil).Once()
		req := base
		req.ActualAmount = decimal.RequireFromString("500.00")

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - bad sale date", func(t *testing.T) {
		svc, _ := setupTicketSaleService(t)
		req := base
		req.SaleDate = "yesterday"

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTicketSaleService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to date", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.saleRepo.On("Stats", ctx, model.SaleGroupByDate, model.TicketSaleFilter{}).
			Return([]*model.SaleStat{{Key: "2026-11-01", Count: 3}}, nil).Once()

		stats, err := svc.Stats(ctx, "", model.TicketSaleFilter{})
		require.NoError(t, err)
		assert.Len(t, stats, 1)
	})

	t.Run("rejects unknown grouping", func(t *testing.T) {
		svc, _ := setupTicketSaleService(t)

		_, err := svc.Stats(ctx, "weekday", model.TicketSaleFilter{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("top N passes the limit through", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		filter := model.TicketSaleFilter{Limit: 10}
		m.saleRepo.On("Stats", ctx, model.SaleGroupByTrain, filter).
			Return([]*model.SaleStat{{Key: "G1", Count: 9}, {Key: "G3", Count: 4}}, nil).Once()

		stats, err := svc.Stats(ctx, model.SaleGroupByTrain, filter)
		require.NoError(t, err)
		assert.Len(t, stats, 2)
	})

	t.Run("rejects limit out of range", func(t *testing.T) {
		svc, _ := setupTicketSaleService(t)

		_, err := svc.Stats(ctx, model.SaleGroupByDestination, model.TicketSaleFilter{Limit: service.MaxStatsLimit + 1})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = svc.Stats(ctx, model.SaleGroupByDestination, model.TicketSaleFilter{Limit: -1})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTicketSaleService_RefundTrend(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.refundRepo.On("Trend", ctx, &start, &end).Return([]*model.RefundTrendPoint{
			{Date: "2026-11-02", Count: 1, Amount: decimal.RequireFromString("45.00")},
		}, nil).Once()

		trend, err := svc.RefundTrend(ctx, model.TicketSaleFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, trend, 1)
		assert.Equal(t, "2026-11-02", trend[0].Date)
	})

	t.Run("rejects reversed range", func(t *testing.T) {
		svc, _ := setupTicketSaleService(t)

		_, err := svc.RefundTrend(ctx, model.TicketSaleFilter{StartDate: &end, EndDate: &start})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTicketSaleService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.userRepo.On("Count", mock.Anything).Return(4, nil).Once()
		m.orderRepo.On("Count", mock.Anything).Return(10, nil).Once()
		m.refundRepo.On("Count", mock.Anything).Return(2, nil).Once()
		m.saleRepo.On("SumAmount", mock.Anything, model.TicketSaleFilter{}).Return(decimal.RequireFromString("1234.50"), nil).Once()

		summary, err := svc.Summary(ctx, model.TicketSaleFilter{})
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Users)
		assert.Equal(t, 10, summary.Orders)
		assert.Equal(t, 2, summary.Refunds)
		assert.Equal(t, "1234.50", summary.SalesAmount.StringFixed(2))
	})

	t.Run("Failed - any count fails", func(t *testing.T) {
		svc, m := setupTicketSaleService(t)
		m.userRepo.On("Count", mock.Anything).Return(0, errors.New("boom")).Maybe()
		m.orderRepo.On("Count", mock.Anything).Return(10, nil).Maybe()
		m.refundRepo.On("Count", mock.Anything).Return(2, nil).Maybe()
		m.saleRepo.On("SumAmount", mock.Anything, mock.Anything).Return(decimal.Zero, nil).Maybe()

		_, err := svc.Summary(ctx, model.TicketSaleFilter{})
		assert.EqualError(t, err, "boom")
	})
}

func TestTicketSaleService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	svc, m := setupTicketSaleService(t)
	orderID := 42
	date := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	m.saleRepo.On("ListAll", ctx, model.TicketSaleFilter{TrainNumber: "G7"}).Return([]*model.TicketSaleRecord{
		{SaleDate: date, TrainNumber: "G7", Destination: "上海虹桥", SeatClass: model.SeatClassFirst, TicketCount: 2, ActualAmount: decimal.RequireFromString("501"), OrderID: &orderID},
		{SaleDate: date, TrainNumber: "G7", Destination: "上海虹桥, 虹桥站", SeatClass: model.SeatClassFirst, TicketCount: -2, ActualAmount: decimal.RequireFromString("-475.95")},
	}, nil).Once()

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, model.TicketSaleFilter{TrainNumber: "G7"}, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"sale_date", "train_number", "destination", "seat_class", "ticket_count", "actual_amount", "order_id"}, rows[0])
	assert.Equal(t, []string{"2026-11-01", "G7", "上海虹桥", "first", "2", "501.00", "42"}, rows[1])
	assert.Equal(t, []string{"2026-11-01", "G7", "上海虹桥, 虹桥站", "first", "-2", "-475.95", ""}, rows[2])
}
