package ratelimiter

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/globuddy/globuddy-server/pkg/apperror"
)

func TestRateLimitErrorMapsToTooManyRequests(t *testing.T) {
	err := &RateLimitError{
		Message:    "you are doing that too fast",
		RetryAfter: 10 * time.Second,
	}

	if !errors.Is(err, apperror.ErrRateLimitExceeded) {
		t.Error("rate limit error does not wrap the rate limit sentinel")
	}
	if status := apperror.MapErrorToStatus(err); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", status, http.StatusTooManyRequests)
	}
}
