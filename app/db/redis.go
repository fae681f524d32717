package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-trip-itineraries/config"
)

// NewRedisClient builds the shared redis client used for selection
// sessions.
func NewRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Repositories.Redis.Host, cfg.Repositories.Redis.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Repositories.Redis.Password,
		DB:       cfg.Repositories.Redis.DB,
	})
	logger.Info("Redis client initialized", slog.String("addr", addr), slog.Int("db", cfg.Repositories.Redis.DB))
	return client
}

// WaitForRedis pings redis with the same escalating retry schedule as
// WaitForDB.
func WaitForRedis(ctx context.Context, client *redis.Client, logger *slog.Logger) bool {
	maxAttempts := defaultRetries
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := client.Ping(ctx).Err()
		if err == nil {
			logger.InfoContext(ctx, "Redis connection successful")
			return true
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.WarnContext(ctx, "Redis ping failed, retrying...",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("wait_duration", waitDuration),
			slog.String("error", err.Error()),
		)
		if attempts < maxAttempts {
			time.Sleep(waitDuration)
		}
	}
	logger.ErrorContext(ctx, "Redis connection failed after multiple retries")
	return false
}
