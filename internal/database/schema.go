package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		email         VARCHAR(100) UNIQUE,
		phone         VARCHAR(20)  UNIQUE,
		role          VARCHAR(20)  NOT NULL DEFAULT 'user',
		status        SMALLINT     NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS passengers (
		id         SERIAL PRIMARY KEY,
		user_id    INT         NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       VARCHAR(50) NOT NULL,
		id_card    VARCHAR(30) NOT NULL,
		phone      VARCHAR(20),
		is_default BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, id_card)
	)`,
	`CREATE TABLE IF NOT EXISTS trains (
		id                   SERIAL PRIMARY KEY,
		train_number         VARCHAR(20)   NOT NULL UNIQUE,
		departure_station    VARCHAR(50)   NOT NULL,
		arrival_station      VARCHAR(50)   NOT NULL,
		departure_time       VARCHAR(8)    NOT NULL,
		arrival_time         VARCHAR(8)    NOT NULL,
		vehicle_type         VARCHAR(20),
		total_seats_business INT           NOT NULL DEFAULT 0,
		total_seats_first    INT           NOT NULL DEFAULT 0,
		total_seats_second   INT           NOT NULL DEFAULT 0,
		price_business       NUMERIC(10,2) NOT NULL DEFAULT 0,
		price_first          NUMERIC(10,2) NOT NULL DEFAULT 0,
		price_second         NUMERIC(10,2) NOT NULL DEFAULT 0,
		status               SMALLINT      NOT NULL DEFAULT 1,
		created_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS train_stops (
		id             SERIAL PRIMARY KEY,
		train_id       INT         NOT NULL REFERENCES trains(id) ON DELETE CASCADE,
		station_name   VARCHAR(50) NOT NULL,
		stop_order     INT         NOT NULL,
		arrival_time   VARCHAR(8)  NOT NULL,
		departure_time VARCHAR(8)  NOT NULL,
		UNIQUE (train_id, stop_order)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_train_stops_station ON train_stops (station_name)`,
	`CREATE TABLE IF NOT EXISTS ticket_inventory (
		id           SERIAL PRIMARY KEY,
		train_id     INT         NOT NULL REFERENCES trains(id),
		travel_date  DATE        NOT NULL,
		seat_class   VARCHAR(20) NOT NULL,
		total_seats  INT         NOT NULL,
		sold_seats   INT         NOT NULL DEFAULT 0 CHECK (sold_seats >= 0),
		locked_seats INT         NOT NULL DEFAULT 0 CHECK (locked_seats >= 0),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (train_id, travel_date, seat_class)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                SERIAL PRIMARY KEY,
		order_number      VARCHAR(50)   NOT NULL UNIQUE,
		user_id           INT           NOT NULL,
		train_id          INT           NOT NULL,
		train_number      VARCHAR(20)   NOT NULL,
		travel_date       DATE          NOT NULL,
		from_station      VARCHAR(50)   NOT NULL DEFAULT '',
		to_station        VARCHAR(50)   NOT NULL DEFAULT '',
		seat_class        VARCHAR(20)   NOT NULL,
		ticket_count      INT           NOT NULL,
		passenger_name    VARCHAR(50),
		passenger_id_card VARCHAR(20),
		ticket_price      NUMERIC(10,2) NOT NULL,
		total_amount      NUMERIC(10,2) NOT NULL,
		status            VARCHAR(20)   NOT NULL DEFAULT 'pending',
		payment_time      TIMESTAMPTZ,
		created_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_train_date ON orders (train_id, travel_date, seat_class)`,
	`CREATE TABLE IF NOT EXISTS ticket_sales (
		id            SERIAL PRIMARY KEY,
		sale_date     DATE          NOT NULL,
		train_id      INT           NOT NULL,
		train_number  VARCHAR(20)   NOT NULL,
		destination   VARCHAR(50)   NOT NULL DEFAULT '',
		seat_class    VARCHAR(20)   NOT NULL,
		ticket_count  INT           NOT NULL,
		actual_amount NUMERIC(10,2) NOT NULL,
		order_id      INT,
		created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_sales_date ON ticket_sales (sale_date)`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_sales_order ON ticket_sales (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refunds_created ON refunds (created_at)`,
	`CREATE TABLE IF NOT EXISTS refunds (
		id               SERIAL PRIMARY KEY,
		order_id         INT           NOT NULL REFERENCES orders(id),
		train_id         INT           NOT NULL,
		train_number     VARCHAR(20)   NOT NULL,
		travel_date      DATE          NOT NULL,
		seat_class       VARCHAR(20)   NOT NULL,
		destination      VARCHAR(50)   NOT NULL DEFAULT '',
		route            VARCHAR(100),
		vehicle_type     VARCHAR(20),
		ticket_price     NUMERIC(10,2) NOT NULL,
		ticket_count     INT           NOT NULL,
		service_fee_rate NUMERIC(5,2)  NOT NULL DEFAULT 0,
		service_fee      NUMERIC(10,2) NOT NULL,
		refund_amount    NUMERIC(10,2) NOT NULL,
		refund_reason    VARCHAR(255),
		created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema 建立資料表(已存在則略過)
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
