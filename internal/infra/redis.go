package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisPingAttempts = 5
	redisPingBackoff  = time.Second
)

// NewRedis opens the client shared by the job queues and the rate limiter.
// Redis often starts after the API under compose, so the first ping is
// retried with a linear backoff before giving up.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	// BRPOP blocks for 5s; the read timeout must outlast it.
	opts.ReadTimeout = 10 * time.Second

	rdb := redis.NewClient(opts)
	if err := pingRedis(rdb, redisPingAttempts, redisPingBackoff); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func pingRedis(rdb *redis.Client, attempts int, backoff time.Duration) error {
	var err error
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", i).Msg("redis not ready")
		if i < attempts {
			time.Sleep(time.Duration(i) * backoff)
		}
	}
	return fmt.Errorf("redis ping after %d attempts: %w", attempts, err)
}
