package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/database"
	"github.com/Objecteee/ticket-on-line/internal/model"
	"github.com/Objecteee/ticket-on-line/internal/queue"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MinTicketCount = 1
	MaxTicketCount = 9

	// 補償事件發送上限，超時只記 log
	publishTimeout = 3 * time.Second
)

type OrderService interface {
	// 建立 pending 訂單，不扣庫存
	CreateOrder(ctx context.Context, principal model.Principal, req model.CreateOrderRequest) (*model.Order, error)
	// 付款：同一交易內扣庫存、更新狀態、寫入售票紀錄
	PayOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error)
	// 取消：已取消/已退票時直接回傳原訂單
	CancelOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error)
	// 退票：已退票時直接回傳原訂單，refund 為 nil
	RefundOrder(ctx context.Context, principal model.Principal, id int, req model.RefundOrderRequest) (*model.Order, *model.RefundRecord, error)
	CompleteOrder(ctx context.Context, id int) (*model.Order, error)
	GetOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error)
	ListOrders(ctx context.Context, principal model.Principal, filter model.OrderFilter) (*model.PageResult[*model.Order], error)
	ListRefunds(ctx context.Context, filter model.RefundFilter) (*model.PageResult[*model.RefundRecord], error)
}

type OrderServiceImpl struct {
	db             database.Transactor
	repository     repository.OrderRepository
	trainRepo      repository.TrainRepository
	saleRepo       repository.TicketSaleRepository
	refundRepo     repository.RefundRepository
	passengerRepo  repository.PassengerRepository
	inventory      InventoryService
	queue          queue.ReconciliationQueue
	defaultFeeRate decimal.Decimal
	log            *zap.Logger
}

func NewOrderService(
	db database.Transactor,
	orderRepository repository.OrderRepository,
	trainRepository repository.TrainRepository,
	saleRepository repository.TicketSaleRepository,
	refundRepository repository.RefundRepository,
	passengerRepository repository.PassengerRepository,
	inventory InventoryService,
	reconciliationQueue queue.ReconciliationQueue,
	defaultFeeRate float64,
) OrderService {
	return &OrderServiceImpl{
		db:             db,
		repository:     orderRepository,
		trainRepo:      trainRepository,
		saleRepo:       saleRepository,
		refundRepo:     refundRepository,
		passengerRepo:  passengerRepository,
		inventory:      inventory,
		queue:          reconciliationQueue,
		defaultFeeRate: decimal.NewFromFloat(defaultFeeRate),
		log:            logger.WithComponent("service"),
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return "OD" + time.Now().UTC().Format("20060102150405") + suffix
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, principal model.Principal, req model.CreateOrderRequest) (*model.Order, error) {
	travelDate, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("travel date %q: %w", req.Date, apperrors.ErrInvalidInput)
	}
	if !req.SeatClass.IsValid() {
		return nil, fmt.Errorf("seat class %q: %w", req.SeatClass, apperrors.ErrInvalidPurchase)
	}

	if len(req.PassengerIDs) > 0 {
		if len(req.Passengers) > 0 {
			return nil, fmt.Errorf("passengers and passenger_ids are exclusive: %w", apperrors.ErrInvalidPurchase)
		}
		if len(req.PassengerIDs) > MaxTicketCount {
			return nil, fmt.Errorf("ticket count %d out of range: %w", len(req.PassengerIDs), apperrors.ErrInvalidPurchase)
		}
		req.Passengers, err = resolvePassengers(ctx, s.passengerRepo, principal.UserID, req.PassengerIDs)
		if err != nil {
			return nil, err
		}
	}

	count := req.TicketCount()
	if count < MinTicketCount || count > MaxTicketCount {
		return nil, fmt.Errorf("ticket count %d out of range: %w", count, apperrors.ErrInvalidPurchase)
	}

	train, err := s.trainRepo.FindByID(ctx, req.TrainID)
	if err != nil {
		return nil, err
	}
	if !train.IsActive() {
		return nil, fmt.Errorf("train %s is not on sale: %w", train.TrainNumber, apperrors.ErrInvalidPurchase)
	}

	price := train.PriceFor(req.SeatClass)
	if !price.IsPositive() {
		return nil, fmt.Errorf("seat class %s has no price: %w", req.SeatClass, apperrors.ErrInvalidPurchase)
	}

	var passengerName, passengerIDCard *string
	if len(req.Passengers) > 0 {
		passengerName = &req.Passengers[0].Name
		passengerIDCard = &req.Passengers[0].IDCard
	} else {
		if req.PassengerName != "" {
			passengerName = &req.PassengerName
		}
		if req.PassengerIDCard != "" {
			passengerIDCard = &req.PassengerIDCard
		}
	}

	from, to := req.From, req.To
	if from == "" {
		from = train.DepartureStation
	}
	if to == "" {
		to = train.ArrivalStation
	}

	order := &model.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          principal.UserID,
		TrainID:         train.ID,
		TrainNumber:     train.TrainNumber,
		TravelDate:      travelDate,
		FromStation:     from,
		ToStation:       to,
		SeatClass:       req.SeatClass,
		TicketCount:     count,
		PassengerName:   passengerName,
		PassengerIDCard: passengerIDCard,
		TicketPrice:     price.Round(2),
		TotalAmount:     price.Mul(decimal.NewFromInt(int64(count))).Round(2),
		Status:          model.OrderStatusPending,
	}

	created, err := s.repository.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Int("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.Int("user_id", created.UserID),
		zap.Int("ticket_count", created.TicketCount),
	)

	return created, nil
}

func (s *OrderServiceImpl) PayOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	var paid *model.Order

	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.repository.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !principal.CanAccess(order.UserID) {
			return apperrors.ErrForbidden
		}
		if order.Status != model.OrderStatusPending {
			return fmt.Errorf("pay order in status %s: %w", order.Status, apperrors.ErrInvalidOrderStatus)
		}

		train, err := s.trainRepo.FindByID(ctx, order.TrainID)
		if err != nil {
			return err
		}
		if !train.IsActive() {
			return fmt.Errorf("train %s is not on sale: %w", train.TrainNumber, apperrors.ErrInvalidPurchase)
		}

		// 1. 扣減庫存
		if _, err := s.inventory.Reserve(ctx, tx, train, order.InventoryKey(), order.TicketCount); err != nil {
			return err
		}

		// 2. 更新訂單狀態
		now := time.Now().UTC()
		paid, err = s.repository.UpdateStatus(ctx, tx, order.ID, model.OrderStatusPaid, &now)
		if err != nil {
			return err
		}

		// 3. 寫入正向售票紀錄
		_, err = s.saleRepo.CreateTx(ctx, tx, model.NewSaleFromOrder(paid))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order paid", zap.Int("order_id", paid.ID), zap.String("total_amount", paid.TotalAmount.StringFixed(2)))
	return paid, nil
}

func (s *OrderServiceImpl) CancelOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	var (
		result       *model.Order
		wasHolding   bool
		transitioned bool
	)

	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.repository.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !principal.CanAccess(order.UserID) {
			return apperrors.ErrForbidden
		}
		if order.Status.IsTerminal() {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
			return fmt.Errorf("cancel order in status %s: %w", order.Status, apperrors.ErrInvalidOrderStatus)
		}

		wasHolding = order.Status.HoldsInventory()
		result, err = s.repository.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCancelled, nil)
		if err != nil {
			return err
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !transitioned {
		return result, nil
	}

	s.log.Info("order cancelled", zap.Int("order_id", result.ID))

	// pending 訂單尚未扣庫存，不需回補與沖銷
	if wasHolding {
		s.compensate(ctx, result, "", result.TotalAmount)
	}

	return result, nil
}

func (s *OrderServiceImpl) RefundOrder(ctx context.Context, principal model.Principal, id int, req model.RefundOrderRequest) (*model.Order, *model.RefundRecord, error) {
	rate := s.defaultFeeRate
	if req.ServiceFeeRate != nil {
		rate = decimal.NewFromFloat(*req.ServiceFeeRate)
	}
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, nil, fmt.Errorf("service fee rate %s: %w", rate, apperrors.ErrInvalidInput)
	}
	rate = rate.Round(2)

	var (
		result *model.Order
		refund *model.RefundRecord
	)

	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.repository.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !principal.CanAccess(order.UserID) {
			return apperrors.ErrForbidden
		}
		if order.Status == model.OrderStatusRefunded {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(model.OrderStatusRefunded) {
			return fmt.Errorf("refund order in status %s: %w", order.Status, apperrors.ErrInvalidOrderStatus)
		}

		serviceFee, refundAmount := model.ComputeRefund(order.TotalAmount, rate)

		destination := req.Destination
		if destination == "" {
			destination = order.ToStation
		}
		refund, err = s.refundRepo.Create(ctx, tx, &model.RefundRecord{
			OrderID:        order.ID,
			TrainID:        order.TrainID,
			TrainNumber:    order.TrainNumber,
			TravelDate:     order.TravelDate,
			SeatClass:      order.SeatClass,
			Destination:    destination,
			Route:          optionalString(req.Route),
			VehicleType:    optionalString(req.VehicleType),
			TicketPrice:    order.TicketPrice,
			TicketCount:    order.TicketCount,
			ServiceFeeRate: rate,
			ServiceFee:     serviceFee,
			RefundAmount:   refundAmount,
			RefundReason:   optionalString(req.RefundReason),
		})
		if err != nil {
			return err
		}

		result, err = s.repository.UpdateStatus(ctx, tx, order.ID, model.OrderStatusRefunded, nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if refund == nil {
		return result, nil, nil
	}

	s.log.Info("order refunded",
		zap.Int("order_id", result.ID),
		zap.String("service_fee", refund.ServiceFee.StringFixed(2)),
		zap.String("refund_amount", refund.RefundAmount.StringFixed(2)),
	)

	// 金額只沖回實際退款額，手續費保留為營收
	s.compensate(ctx, result, req.Destination, refund.RefundAmount)

	return result, refund, nil
}

func (s *OrderServiceImpl) CompleteOrder(ctx context.Context, id int) (*model.Order, error) {
	var result *model.Order

	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.repository.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCompleted {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(model.OrderStatusCompleted) {
			return fmt.Errorf("complete order in status %s: %w", order.Status, apperrors.ErrInvalidOrderStatus)
		}
		result, err = s.repository.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCompleted, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, principal model.Principal, id int) (*model.Order, error) {
	order, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return order, nil
}

func (s *OrderServiceImpl) ListOrders(ctx context.Context, principal model.Principal, filter model.OrderFilter) (*model.PageResult[*model.Order], error) {
	if !principal.IsAdmin() {
		userID := principal.UserID
		filter.UserID = &userID
	}
	filter.Page = filter.Page.Normalize()

	orders, total, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PageResult[*model.Order]{
		List:     orders,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

func (s *OrderServiceImpl) ListRefunds(ctx context.Context, filter model.RefundFilter) (*model.PageResult[*model.RefundRecord], error) {
	filter.Page = filter.Page.Normalize()

	refunds, total, err := s.refundRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PageResult[*model.RefundRecord]{
		List:     refunds,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// compensate 回補庫存並寫入沖銷紀錄。失敗不影響取消/退票結果，改發送對帳事件由 worker 重試
func (s *OrderServiceImpl) compensate(ctx context.Context, order *model.Order, destination string, amount decimal.Decimal) {
	// 使用者斷線也要完成補償
	ctx = context.WithoutCancel(ctx)
	log := s.log.With(zap.Int("order_id", order.ID))

	key := order.InventoryKey()
	if _, err := s.inventory.Replenish(ctx, key, order.TicketCount); err != nil {
		log.Error("replenish failed, reconciliation needed", zap.Error(err))
		s.publishReconciliation(ctx, &model.ReconciliationEvent{
			Kind:        model.ReconcileReplenish,
			OrderID:     order.ID,
			TrainID:     key.TrainID,
			TravelDate:  key.TravelDate,
			SeatClass:   key.SeatClass,
			TicketCount: order.TicketCount,
			Cause:       err.Error(),
			OccurredAt:  time.Now().UTC(),
		})
	}

	if destination == "" {
		destination = order.ToStation
		if sale, err := s.saleRepo.FindFirstByOrderID(ctx, order.ID); err == nil {
			destination = sale.Destination
		}
	}

	reversal := model.NewReversalFromOrder(order, destination, amount)
	if _, err := s.saleRepo.Create(ctx, reversal); err != nil {
		log.Error("sale reversal failed, reconciliation needed", zap.Error(err))
		s.publishReconciliation(ctx, &model.ReconciliationEvent{
			Kind:        model.ReconcileSaleReverse,
			OrderID:     order.ID,
			TrainID:     order.TrainID,
			TravelDate:  order.TravelDate,
			SeatClass:   order.SeatClass,
			TicketCount: order.TicketCount,
			Sale:        reversal,
			Cause:       err.Error(),
			OccurredAt:  time.Now().UTC(),
		})
	}
}

func (s *OrderServiceImpl) publishReconciliation(ctx context.Context, event *model.ReconciliationEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.queue.Publish(ctx, event); err != nil {
		s.log.Error("failed to publish reconciliation event",
			zap.String("kind", string(event.Kind)),
			zap.Int("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
