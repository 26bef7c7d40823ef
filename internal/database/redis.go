package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Objecteee/ticket-on-line/config"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// InitRedis 建立對帳事件佇列使用的 Redis client，啟動時確認可連線
func InitRedis(config *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(config.Host, config.Port),
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: redisPingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", rdb.Options().Addr, err)
	}

	return rdb, nil
}
