package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository interface {
	FindByKey(ctx context.Context, key model.InventoryKey) (*model.TicketInventory, error)
	ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error)

	// Transaction methods
	// EnsureRow 不存在時以 totalSeats 建立庫存列，已存在則不變
	EnsureRow(ctx context.Context, tx pgx.Tx, key model.InventoryKey, totalSeats int) error
	// IncrementSold 條件式扣減：可售數不足時回傳 ErrInsufficientInventory
	IncrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error)
	// DecrementSold 回補庫存，sold_seats 最小為 0
	DecrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error)
}

type InventoryRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &InventoryRepositoryImpl{
		pool: pool,
	}
}

const inventoryColumns = `id, train_id, travel_date, seat_class, total_seats, sold_seats, locked_seats, created_at, updated_at`

func scanInventory(row pgx.Row) (*model.TicketInventory, error) {
	var inv model.TicketInventory
	err := row.Scan(
		&inv.ID,
		&inv.TrainID,
		&inv.TravelDate,
		&inv.SeatClass,
		&inv.TotalSeats,
		&inv.SoldSeats,
		&inv.LockedSeats,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepositoryImpl) FindByKey(ctx context.Context, key model.InventoryKey) (*model.TicketInventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM ticket_inventory
		WHERE train_id = $1 AND travel_date = $2 AND seat_class = $3
	`

	inv, err := scanInventory(r.pool.QueryRow(ctx, query, key.TrainID, key.TravelDate, key.SeatClass))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInventoryNotFound
		}
		return nil, err
	}

	return inv, nil
}

func (r *InventoryRepositoryImpl) ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM ticket_inventory
		WHERE train_id = $1 AND travel_date = $2
		ORDER BY seat_class ASC
	`

	rows, err := r.pool.Query(ctx, query, trainID, travelDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.TicketInventory, 0)
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *InventoryRepositoryImpl) EnsureRow(ctx context.Context, tx pgx.Tx, key model.InventoryKey, totalSeats int) error {
	query := `
		INSERT INTO ticket_inventory (train_id, travel_date, seat_class, total_seats, sold_seats, locked_seats)
		VALUES ($1, $2, $3, $4, 0, 0)
		ON CONFLICT (train_id, travel_date, seat_class) DO NOTHING
	`

	_, err := tx.Exec(ctx, query, key.TrainID, key.TravelDate, key.SeatClass, totalSeats)
	return err
}

func (r *InventoryRepositoryImpl) IncrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	query := `
		UPDATE ticket_inventory
		SET sold_seats = sold_seats + $1, updated_at = $2
		WHERE train_id = $3 AND travel_date = $4 AND seat_class = $5
		  AND total_seats - sold_seats - locked_seats >= $1
		RETURNING ` + inventoryColumns

	inv, err := scanInventory(tx.QueryRow(ctx, query, count, time.Now().UTC(), key.TrainID, key.TravelDate, key.SeatClass))
	if err != nil {
		// 條件不成立時不會更新任何列
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInsufficientInventory
		}
		return nil, err
	}

	return inv, nil
}

func (r *InventoryRepositoryImpl) DecrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	query := `
		UPDATE ticket_inventory
		SET sold_seats = GREATEST(0, sold_seats - $1), updated_at = $2
		WHERE train_id = $3 AND travel_date = $4 AND seat_class = $5
		RETURNING ` + inventoryColumns

	inv, err := scanInventory(tx.QueryRow(ctx, query, count, time.Now().UTC(), key.TrainID, key.TravelDate, key.SeatClass))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInventoryNotFound
		}
		return nil, err
	}

	return inv, nil
}
