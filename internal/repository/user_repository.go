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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]*model.User, int, error)
	Update(ctx context.Context, id int, update model.UserUpdate) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

const userColumns = `id, username, password_hash, email, phone, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Phone, user.Role, user.Status,
	))
	if err != nil {
		// username / email / phone 重複
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", user.Username, apperrors.ErrConflict)
		}
		return nil, err
	}

	return created, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter model.UserFilter) ([]*model.User, int, error) {
	var where whereBuilder
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		where.add("(username LIKE $%[1]d OR email LIKE $%[1]d OR phone LIKE $%[1]d)", kw)
	}
	if filter.Role != "" {
		where.add("role = $%d", filter.Role)
	}
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users "+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	limitPos := where.nextArg(page.PageSize)
	offsetPos := where.nextArg(page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where.sql(), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id int, update model.UserUpdate) (*model.User, error) {
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Username != nil {
		set("username", *update.Username)
	}
	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.Phone != nil {
		set("phone", *update.Phone)
	}
	if update.Role != nil {
		set("role", *update.Role)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.PasswordHash != nil {
		set("password_hash", *update.PasswordHash)
	}
	set("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
