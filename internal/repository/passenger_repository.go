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

type PassengerRepository interface {
	ListByUser(ctx context.Context, userID int) ([]*model.SavedPassenger, error)
	// FindByIDs 只回傳屬於 userID 的乘車人
	FindByIDs(ctx context.Context, userID int, ids []int) ([]*model.SavedPassenger, error)
	FindByID(ctx context.Context, userID, id int) (*model.SavedPassenger, error)
	Create(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error)
	Update(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error)
	Delete(ctx context.Context, userID, id int) error
	// SetDefault 將 id 設為預設，同一使用者的其他乘車人一併取消預設
	SetDefault(ctx context.Context, userID, id int) error
	ClearDefault(ctx context.Context, userID int) error
}

type PassengerRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPassengerRepository(pool *pgxpool.Pool) PassengerRepository {
	return &PassengerRepositoryImpl{
		pool: pool,
	}
}

const passengerColumns = `id, user_id, name, id_card, phone, is_default, created_at, updated_at`

func scanPassenger(row pgx.Row) (*model.SavedPassenger, error) {
	var p model.SavedPassenger
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.IDCard,
		&p.Phone,
		&p.IsDefault,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPassengerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PassengerRepositoryImpl) queryPassengers(ctx context.Context, query string, args ...interface{}) ([]*model.SavedPassenger, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]*model.SavedPassenger, 0)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passengers, nil
}

func (r *PassengerRepositoryImpl) ListByUser(ctx context.Context, userID int) ([]*model.SavedPassenger, error) {
	query := `SELECT ` + passengerColumns + `
		FROM passengers
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC, id DESC`
	return r.queryPassengers(ctx, query, userID)
}

func (r *PassengerRepositoryImpl) FindByIDs(ctx context.Context, userID int, ids []int) ([]*model.SavedPassenger, error) {
	query := `SELECT ` + passengerColumns + `
		FROM passengers
		WHERE user_id = $1 AND id = ANY($2)`
	return r.queryPassengers(ctx, query, userID, ids)
}

func (r *PassengerRepositoryImpl) FindByID(ctx context.Context, userID, id int) (*model.SavedPassenger, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = $1 AND user_id = $2`
	return scanPassenger(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PassengerRepositoryImpl) Create(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error) {
	query := `
		INSERT INTO passengers (user_id, name, id_card, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + passengerColumns

	created, err := scanPassenger(r.pool.QueryRow(ctx, query,
		passenger.UserID, passenger.Name, passenger.IDCard, passenger.Phone,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("passenger id card already saved: %w", apperrors.ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

func (r *PassengerRepositoryImpl) Update(ctx context.Context, passenger *model.SavedPassenger) (*model.SavedPassenger, error) {
	query := `
		UPDATE passengers
		SET name = $1, id_card = $2, phone = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING ` + passengerColumns

	updated, err := scanPassenger(r.pool.QueryRow(ctx, query,
		passenger.Name, passenger.IDCard, passenger.Phone, time.Now().UTC(), passenger.ID, passenger.UserID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("passenger id card already saved: %w", apperrors.ErrConflict)
		}
		return nil, err
	}
	return updated, nil
}

func (r *PassengerRepositoryImpl) Delete(ctx context.Context, userID, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM passengers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPassengerNotFound
	}
	return nil
}

func (r *PassengerRepositoryImpl) SetDefault(ctx context.Context, userID, id int) error {
	// 單一語句切換，避免同時存在兩個預設
	query := `
		UPDATE passengers
		SET is_default = (id = $2), updated_at = $3
		WHERE user_id = $1
		  AND EXISTS (SELECT 1 FROM passengers WHERE id = $2 AND user_id = $1)`

	result, err := r.pool.Exec(ctx, query, userID, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPassengerNotFound
	}
	return nil
}

func (r *PassengerRepositoryImpl) ClearDefault(ctx context.Context, userID int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE passengers SET is_default = FALSE, updated_at = $2 WHERE user_id = $1 AND is_default`,
		userID, time.Now().UTC(),
	)
	return err
}
