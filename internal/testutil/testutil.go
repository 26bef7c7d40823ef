// Package testutil 連線測試用的 PostgreSQL(5433) 與 Redis(6380)，連不到時略過測試
package testutil

import (
	"context"
	"testing"

	"github.com/Objecteee/ticket-on-line/config"
	"github.com/Objecteee/ticket-on-line/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var truncateAll = `TRUNCATE refunds, ticket_sales, orders, ticket_inventory, train_stops, trains, passengers, users RESTART IDENTITY CASCADE`

// SetupDatabase 建立 schema 並清空所有資料表
func SetupDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	cfg := config.LoadTestConfig()
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	if _, err := pool.Exec(ctx, truncateAll); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	return pool
}

// SetupRedisOnly 僅初始化 Redis，用於只依賴 Redis 的測試(如 queue 整合測試)
func SetupRedisOnly(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}

	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}
