package database

import (
	"context"

	// manuell eingetragen (unterhalt der version ohne /v8)
	"github.com/go-redis/redis/v8"
)

// OpenRedisConnection pools the connection to the store; redis connections are
// made to a specific DB (id-num), so the token registry and the cache get their own client
func OpenRedisConnection(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := Timeout(ctx)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
