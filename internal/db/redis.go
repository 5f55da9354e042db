package db

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"memory_party/internal/logger"
)

// ConnectRedis opens a Redis client and pings it.
func ConnectRedis(ctx context.Context, addr, password string, index int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: index})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	logger.Info("redis connected", "addr", addr, "db", index)
	return client, nil
}
