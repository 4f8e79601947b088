package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signupflow/backend/internal/config"
)

const pingTimeout = time.Millisecond * 1500

func NewRedis(cfg config.Cache) (redis.UniversalClient, error) {
	opts := &redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		PoolSize:        cfg.PoolSize,
		ConnMaxIdleTime: 170 * time.Second,
		DialTimeout:     time.Second * 1,
		ReadTimeout:     time.Second * 1,
		WriteTimeout:    time.Second * 1,
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	_, err := client.Ping(pingCtx).Result()
	return client, err
}
