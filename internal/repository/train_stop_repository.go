package repository

import (
	"context"
	"fmt"

	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainStopRepository interface {
	ListByTrainID(ctx context.Context, trainID int) ([]*model.TrainStop, error)
	// 站名模糊比對，依 train_id、stop_order 排序
	FindByStationLike(ctx context.Context, station string) ([]*model.TrainStop, error)

	// Transaction methods
	ReplaceForTrain(ctx context.Context, tx pgx.Tx, trainID int, stops []*model.TrainStop) error
}

type TrainStopRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTrainStopRepository(pool *pgxpool.Pool) TrainStopRepository {
	return &TrainStopRepositoryImpl{
		pool: pool,
	}
}

func (r *TrainStopRepositoryImpl) queryStops(ctx context.Context, query string, args ...interface{}) ([]*model.TrainStop, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := make([]*model.TrainStop, 0)
	for rows.Next() {
		var s model.TrainStop
		err := rows.Scan(
			&s.ID,
			&s.TrainID,
			&s.StationName,
			&s.StopOrder,
			&s.ArrivalTime,
			&s.DepartureTime,
		)
		if err != nil {
			return nil, err
		}
		stops = append(stops, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}

func (r *TrainStopRepositoryImpl) ListByTrainID(ctx context.Context, trainID int) ([]*model.TrainStop, error) {
	query := `
		SELECT id, train_id, station_name, stop_order, arrival_time, departure_time
		FROM train_stops
		WHERE train_id = $1
		ORDER BY stop_order ASC
	`
	return r.queryStops(ctx, query, trainID)
}

func (r *TrainStopRepositoryImpl) FindByStationLike(ctx context.Context, station string) ([]*model.TrainStop, error) {
	query := `
		SELECT id, train_id, station_name, stop_order, arrival_time, departure_time
		FROM train_stops
		WHERE station_name LIKE $1
		ORDER BY train_id ASC, stop_order ASC
	`
	return r.queryStops(ctx, query, "%"+station+"%")
}

func (r *TrainStopRepositoryImpl) ReplaceForTrain(ctx context.Context, tx pgx.Tx, trainID int, stops []*model.TrainStop) error {
	if _, err := tx.Exec(ctx, `DELETE FROM train_stops WHERE train_id = $1`, trainID); err != nil {
		return fmt.Errorf("failed to clear train stops: %w", err)
	}

	if len(stops) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(stops))
	for _, s := range stops {
		rows = append(rows, []interface{}{trainID, s.StationName, s.StopOrder, s.ArrivalTime, s.DepartureTime})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"train_stops"},
		[]string{"train_id", "station_name", "stop_order", "arrival_time", "departure_time"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert train stops: %w", err)
	}

	return nil
}
