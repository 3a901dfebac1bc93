package ratelimiter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries the retry-after hint for 429 responses.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// CheckAndSetRateLimit acquires a cooldown slot for (username, action).
// Returns true when the action is allowed. A nil redis client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, username, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", username, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, username, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", username, action)
	return rdb.TTL(ctx, key).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, username, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", username, action)
	_, err := rdb.Del(ctx, key).Result()
	return err
}

func GetDurationFromEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
