package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefundRepository interface {
	List(ctx context.Context, filter model.RefundFilter) ([]*model.RefundRecord, int, error)
	Count(ctx context.Context) (int, error)
	// Trend 依退票日統計筆數與退款金額，start/end 皆含
	Trend(ctx context.Context, start, end *time.Time) ([]*model.RefundTrendPoint, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, refund *model.RefundRecord) (*model.RefundRecord, error)
}

type RefundRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRefundRepository(pool *pgxpool.Pool) RefundRepository {
	return &RefundRepositoryImpl{
		pool: pool,
	}
}

const refundColumns = `id, order_id, train_id, train_number, travel_date, seat_class, destination, route, vehicle_type,
		ticket_price, ticket_count, service_fee_rate, service_fee, refund_amount, refund_reason, created_at`

func scanRefund(row pgx.Row) (*model.RefundRecord, error) {
	var rf model.RefundRecord
	err := row.Scan(
		&rf.ID,
		&rf.OrderID,
		&rf.TrainID,
		&rf.TrainNumber,
		&rf.TravelDate,
		&rf.SeatClass,
		&rf.Destination,
		&rf.Route,
		&rf.VehicleType,
		&rf.TicketPrice,
		&rf.TicketCount,
		&rf.ServiceFeeRate,
		&rf.ServiceFee,
		&rf.RefundAmount,
		&rf.RefundReason,
		&rf.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *RefundRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, refund *model.RefundRecord) (*model.RefundRecord, error) {
	query := `
		INSERT INTO refunds (
			order_id, train_id, train_number, travel_date, seat_class, destination, route, vehicle_type,
			ticket_price, ticket_count, service_fee_rate, service_fee, refund_amount, refund_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + refundColumns

	created, err := scanRefund(tx.QueryRow(ctx, query,
		refund.OrderID, refund.TrainID, refund.TrainNumber, refund.TravelDate, refund.SeatClass,
		refund.Destination, refund.Route, refund.VehicleType,
		refund.TicketPrice, refund.TicketCount, refund.ServiceFeeRate, refund.ServiceFee,
		refund.RefundAmount, refund.RefundReason,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return created, nil
}

func (r *RefundRepositoryImpl) List(ctx context.Context, filter model.RefundFilter) ([]*model.RefundRecord, int, error) {
	var where whereBuilder
	if filter.OrderID != nil {
		where.add("order_id = $%d", *filter.OrderID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM refunds "+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limitPos := where.nextArg(page.PageSize)
	offsetPos := where.nextArg(page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM refunds
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, refundColumns, where.sql(), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	refunds := make([]*model.RefundRecord, 0)
	for rows.Next() {
		rf, err := scanRefund(rows)
		if err != nil {
			return nil, 0, err
		}
		refunds = append(refunds, rf)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return refunds, total, nil
}

func (r *RefundRepositoryImpl) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM refunds`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RefundRepositoryImpl) Trend(ctx context.Context, start, end *time.Time) ([]*model.RefundTrendPoint, error) {
	var where whereBuilder
	if start != nil {
		where.add("created_at >= $%d", *start)
	}
	if end != nil {
		where.add("created_at < $%d", end.AddDate(0, 0, 1))
	}

	query := fmt.Sprintf(`
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(refund_amount), 0)
		FROM refunds
		%s
		GROUP BY day
		ORDER BY day ASC
	`, where.sql())

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]*model.RefundTrendPoint, 0)
	for rows.Next() {
		var p model.RefundTrendPoint
		if err := rows.Scan(&p.Date, &p.Count, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
