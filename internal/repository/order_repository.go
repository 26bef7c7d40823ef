package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	FindByID(ctx context.Context, id int) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int, error)
	// 已付款(paid/completed)訂單的票數加總，作為無庫存列時的可售數來源
	SumSoldTickets(ctx context.Context, key model.InventoryKey) (int, error)
	Count(ctx context.Context) (int, error)

	// Transaction methods
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.OrderStatus, paymentTime *time.Time) (*model.Order, error)
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

const orderColumns = `id, order_number, user_id, train_id, train_number, travel_date,
		from_station, to_station, seat_class, ticket_count, passenger_name, passenger_id_card,
		ticket_price, total_amount, status, payment_time, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.TrainID,
		&order.TrainNumber,
		&order.TravelDate,
		&order.FromStation,
		&order.ToStation,
		&order.SeatClass,
		&order.TicketCount,
		&order.PassengerName,
		&order.PassengerIDCard,
		&order.TicketPrice,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentTime,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	query := `
		INSERT INTO orders (
			order_number, user_id, train_id, train_number, travel_date,
			from_station, to_station, seat_class, ticket_count, passenger_name, passenger_id_card,
			ticket_price, total_amount, status, payment_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + orderColumns

	created, err := scanOrder(r.pool.QueryRow(ctx, query,
		order.OrderNumber, order.UserID, order.TrainID, order.TrainNumber, order.TravelDate,
		order.FromStation, order.ToStation, order.SeatClass, order.TicketCount,
		order.PassengerName, order.PassengerIDCard,
		order.TicketPrice, order.TotalAmount, order.Status, order.PaymentTime,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("order number %s: %w", order.OrderNumber, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return created, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int, error) {
	var where whereBuilder
	if filter.OrderNumber != "" {
		where.like("order_number", filter.OrderNumber)
	}
	if filter.UserID != nil {
		where.add("user_id = $%d", *filter.UserID)
	}
	if filter.TrainNumber != "" {
		where.like("train_number", filter.TrainNumber)
	}
	if filter.Status != "" {
		where.add("status = $%d", filter.Status)
	}
	if filter.TravelDateStart != nil && filter.TravelDateEnd != nil {
		where.add("travel_date >= $%d", *filter.TravelDateStart)
		where.add("travel_date <= $%d", *filter.TravelDateEnd)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limitPos := where.nextArg(page.PageSize)
	offsetPos := where.nextArg(page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, where.sql(), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepositoryImpl) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	status model.OrderStatus,
	paymentTime *time.Time,
) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, payment_time = COALESCE($2, payment_time), updated_at = $3
		WHERE id = $4
		RETURNING ` + orderColumns

	order, err := scanOrder(tx.QueryRow(ctx, query, status, paymentTime, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

func (r *OrderRepositoryImpl) SumSoldTickets(ctx context.Context, key model.InventoryKey) (int, error) {
	query := `
		SELECT COALESCE(SUM(ticket_count), 0)
		FROM orders
		WHERE train_id = $1
		  AND travel_date = $2
		  AND seat_class = $3
		  AND status IN ($4, $5)
	`

	var sold int
	err := r.pool.QueryRow(ctx, query,
		key.TrainID, key.TravelDate, key.SeatClass, model.OrderStatusPaid, model.OrderStatusCompleted,
	).Scan(&sold)
	if err != nil {
		return 0, err
	}

	return sold, nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
