package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TicketSaleRepository interface {
	// Create 在交易外寫入(補償流程使用)
	Create(ctx context.Context, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error)
	FindFirstByOrderID(ctx context.Context, orderID int) (*model.TicketSaleRecord, error)
	List(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, int, error)
	ListAll(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, error)
	Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error)
	SumAmount(ctx context.Context, filter model.TicketSaleFilter) (decimal.Decimal, error)

	// Transaction methods
	CreateTx(ctx context.Context, tx pgx.Tx, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error)
}

type TicketSaleRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketSaleRepository(pool *pgxpool.Pool) TicketSaleRepository {
	return &TicketSaleRepositoryImpl{
		pool: pool,
	}
}

const saleColumns = `id, sale_date, train_id, train_number, destination, seat_class, ticket_count, actual_amount, order_id, created_at`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanSale(row pgx.Row) (*model.TicketSaleRecord, error) {
	var s model.TicketSaleRecord
	err := row.Scan(
		&s.ID,
		&s.SaleDate,
		&s.TrainID,
		&s.TrainNumber,
		&s.Destination,
		&s.SeatClass,
		&s.TicketCount,
		&s.ActualAmount,
		&s.OrderID,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSales(rows pgx.Rows) ([]*model.TicketSaleRecord, error) {
	defer rows.Close()

	sales := make([]*model.TicketSaleRecord, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func insertSale(ctx context.Context, q rowQuerier, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	query := `
		INSERT INTO ticket_sales (
			sale_date, train_id, train_number, destination, seat_class, ticket_count, actual_amount, order_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + saleColumns

	created, err := scanSale(q.QueryRow(ctx, query,
		record.SaleDate, record.TrainID, record.TrainNumber, record.Destination,
		record.SeatClass, record.TicketCount, record.ActualAmount, record.OrderID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket sale: %w", err)
	}
	return created, nil
}

func (r *TicketSaleRepositoryImpl) Create(ctx context.Context, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	return insertSale(ctx, r.pool, record)
}

func (r *TicketSaleRepositoryImpl) CreateTx(ctx context.Context, tx pgx.Tx, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	return insertSale(ctx, tx, record)
}

func (r *TicketSaleRepositoryImpl) FindFirstByOrderID(ctx context.Context, orderID int) (*model.TicketSaleRecord, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM ticket_sales
		WHERE order_id = $1
		ORDER BY id ASC
		LIMIT 1
	`

	sale, err := scanSale(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSaleNotFound
		}
		return nil, err
	}

	return sale, nil
}

func saleWhere(filter model.TicketSaleFilter) *whereBuilder {
	var where whereBuilder
	if filter.StartDate != nil && filter.EndDate != nil {
		where.add("sale_date >= $%d", *filter.StartDate)
		where.add("sale_date <= $%d", *filter.EndDate)
	}
	if filter.TrainNumber != "" {
		where.like("train_number", filter.TrainNumber)
	}
	if filter.Destination != "" {
		where.like("destination", filter.Destination)
	}
	return &where
}

func (r *TicketSaleRepositoryImpl) List(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, int, error) {
	where := saleWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ticket_sales "+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limitPos := where.nextArg(page.PageSize)
	offsetPos := where.nextArg(page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM ticket_sales
		%s
		ORDER BY sale_date DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, saleColumns, where.sql(), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	sales, err := collectSales(rows)
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *TicketSaleRepositoryImpl) ListAll(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, error) {
	where := saleWhere(filter)
	query := `SELECT ` + saleColumns + ` FROM ticket_sales ` + where.sql() + ` ORDER BY sale_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	return collectSales(rows)
}

func (r *TicketSaleRepositoryImpl) Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error) {
	var keyExpr string
	switch groupBy {
	case model.SaleGroupByDate:
		keyExpr = "to_char(sale_date, 'YYYY-MM-DD')"
	case model.SaleGroupByTrain:
		keyExpr = "train_number"
	case model.SaleGroupByDestination:
		keyExpr = "destination"
	default:
		return nil, apperrors.ErrInvalidInput
	}

	where := saleWhere(filter)
	limit := ""
	if filter.Limit > 0 {
		limit = fmt.Sprintf("LIMIT $%d", where.nextArg(filter.Limit))
	}
	query := fmt.Sprintf(`
		SELECT %s AS key, COALESCE(SUM(ticket_count), 0) AS count, COALESCE(SUM(actual_amount), 0) AS amount
		FROM ticket_sales
		%s
		GROUP BY key
		ORDER BY count DESC, key ASC
		%s
	`, keyExpr, where.sql(), limit)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*model.SaleStat, 0)
	for rows.Next() {
		var s model.SaleStat
		if err := rows.Scan(&s.Key, &s.Count, &s.Amount); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *TicketSaleRepositoryImpl) SumAmount(ctx context.Context, filter model.TicketSaleFilter) (decimal.Decimal, error) {
	where := saleWhere(filter)

	var amount decimal.Decimal
	err := r.pool.QueryRow(ctx, "SELECT COALESCE(SUM(actual_amount), 0) FROM ticket_sales "+where.sql(), where.args...).Scan(&amount)
	if err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}
