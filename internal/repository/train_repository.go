package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainRepository interface {
	Create(ctx context.Context, train *model.Train) (*model.Train, error)
	List(ctx context.Context, filter model.TrainFilter) ([]*model.Train, int, error)
	FindByID(ctx context.Context, id int) (*model.Train, error)
	// 查詢指定 id 中營運中的車次，依出發時間排序
	FindActiveByIDs(ctx context.Context, ids []int, trainNumber string) ([]*model.Train, error)
	// 未提供雙站點時，依起訖站名模糊比對
	SearchByStations(ctx context.Context, departure, arrival, trainNumber string) ([]*model.Train, error)
	Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error)
	Delete(ctx context.Context, id int) error
}

type TrainRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTrainRepository(pool *pgxpool.Pool) TrainRepository {
	return &TrainRepositoryImpl{
		pool: pool,
	}
}

const trainColumns = `id, train_number, departure_station, arrival_station, departure_time, arrival_time,
		vehicle_type, total_seats_business, total_seats_first, total_seats_second,
		price_business, price_first, price_second, status, created_at, updated_at`

func scanTrain(row pgx.Row) (*model.Train, error) {
	var t model.Train
	err := row.Scan(
		&t.ID,
		&t.TrainNumber,
		&t.DepartureStation,
		&t.ArrivalStation,
		&t.DepartureTime,
		&t.ArrivalTime,
		&t.VehicleType,
		&t.TotalSeatsBusiness,
		&t.TotalSeatsFirst,
		&t.TotalSeatsSecond,
		&t.PriceBusiness,
		&t.PriceFirst,
		&t.PriceSecond,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTrains(rows pgx.Rows) ([]*model.Train, error) {
	defer rows.Close()

	trains := make([]*model.Train, 0)
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trains, nil
}

func (r *TrainRepositoryImpl) Create(ctx context.Context, train *model.Train) (*model.Train, error) {
	query := `
		INSERT INTO trains (
			train_number, departure_station, arrival_station, departure_time, arrival_time,
			vehicle_type, total_seats_business, total_seats_first, total_seats_second,
			price_business, price_first, price_second, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + trainColumns

	created, err := scanTrain(r.pool.QueryRow(ctx, query,
		train.TrainNumber, train.DepartureStation, train.ArrivalStation,
		train.DepartureTime, train.ArrivalTime, train.VehicleType,
		train.TotalSeatsBusiness, train.TotalSeatsFirst, train.TotalSeatsSecond,
		train.PriceBusiness, train.PriceFirst, train.PriceSecond, train.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("train number %s: %w", train.TrainNumber, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create train: %w", err)
	}

	return created, nil
}

func (r *TrainRepositoryImpl) List(ctx context.Context, filter model.TrainFilter) ([]*model.Train, int, error) {
	var where whereBuilder
	if filter.Keyword != "" {
		where.args = append(where.args, "%"+filter.Keyword+"%")
		n := len(where.args)
		where.conds = append(where.conds, fmt.Sprintf(
			"(train_number LIKE $%d OR departure_station LIKE $%d OR arrival_station LIKE $%d)", n, n, n))
	}
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}
	if filter.VehicleType != "" {
		where.add("vehicle_type = $%d", filter.VehicleType)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM trains " + where.sql()
	if err := r.pool.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limitPos := where.nextArg(page.PageSize)
	offsetPos := where.nextArg(page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM trains
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, trainColumns, where.sql(), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	trains, err := collectTrains(rows)
	if err != nil {
		return nil, 0, err
	}

	return trains, total, nil
}

func (r *TrainRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Train, error) {
	query := `SELECT ` + trainColumns + ` FROM trains WHERE id = $1`

	train, err := scanTrain(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTrainNotFound
		}
		return nil, err
	}

	return train, nil
}

func (r *TrainRepositoryImpl) FindActiveByIDs(ctx context.Context, ids []int, trainNumber string) ([]*model.Train, error) {
	if len(ids) == 0 {
		return []*model.Train{}, nil
	}

	var where whereBuilder
	where.add("id = ANY($%d)", ids)
	where.add("status = $%d", model.TrainStatusActive)
	if trainNumber != "" {
		where.like("train_number", trainNumber)
	}

	query := `SELECT ` + trainColumns + ` FROM trains ` + where.sql() + ` ORDER BY departure_time ASC`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	return collectTrains(rows)
}

func (r *TrainRepositoryImpl) SearchByStations(ctx context.Context, departure, arrival, trainNumber string) ([]*model.Train, error) {
	var where whereBuilder
	where.add("status = $%d", model.TrainStatusActive)
	if departure != "" {
		where.like("departure_station", departure)
	}
	if arrival != "" {
		where.like("arrival_station", arrival)
	}
	if trainNumber != "" {
		where.like("train_number", trainNumber)
	}

	query := `SELECT ` + trainColumns + ` FROM trains ` + where.sql() + ` ORDER BY departure_time ASC`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	return collectTrains(rows)
}

func (r *TrainRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.DepartureStation != nil {
		set("departure_station", *params.DepartureStation)
	}
	if params.ArrivalStation != nil {
		set("arrival_station", *params.ArrivalStation)
	}
	if params.DepartureTime != nil {
		set("departure_time", *params.DepartureTime)
	}
	if params.ArrivalTime != nil {
		set("arrival_time", *params.ArrivalTime)
	}
	if params.VehicleType != nil {
		set("vehicle_type", *params.VehicleType)
	}
	if params.TotalSeatsBusiness != nil {
		set("total_seats_business", *params.TotalSeatsBusiness)
	}
	if params.TotalSeatsFirst != nil {
		set("total_seats_first", *params.TotalSeatsFirst)
	}
	if params.TotalSeatsSecond != nil {
		set("total_seats_second", *params.TotalSeatsSecond)
	}
	if params.PriceBusiness != nil {
		set("price_business", *params.PriceBusiness)
	}
	if params.PriceFirst != nil {
		set("price_first", *params.PriceFirst)
	}
	if params.PriceSecond != nil {
		set("price_second", *params.PriceSecond)
	}
	if params.Status != nil {
		set("status", *params.Status)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	set("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE trains
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, trainColumns)

	train, err := scanTrain(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTrainNotFound
		}
		return nil, err
	}

	return train, nil
}

// Delete 只刪除沒有訂單、庫存與售票紀錄的車次，其餘回傳 ErrConflict
func (r *TrainRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM trains
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM orders WHERE train_id = $1)
		  AND NOT EXISTS (SELECT 1 FROM ticket_inventory WHERE train_id = $1)
		  AND NOT EXISTS (SELECT 1 FROM ticket_sales WHERE train_id = $1)`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		// 與並發寫入的庫存列衝突
		if isForeignKeyViolation(err) {
			return fmt.Errorf("train %d is referenced: %w", id, apperrors.ErrConflict)
		}
		return err
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trains WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("train %d has orders or ledger rows: %w", id, apperrors.ErrConflict)
	}
	return apperrors.ErrTrainNotFound
}
