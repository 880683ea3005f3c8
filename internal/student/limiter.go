package student

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SendLimiter caps OTP issuance per email within a rolling window,
// backed by a Redis counter.
type SendLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewSendLimiter creates a limiter allowing max sends per window.
func NewSendLimiter(client *redis.Client, max int, window time.Duration) *SendLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &SendLimiter{client: client, max: max, window: window}
}

// Allow reports whether another OTP may be sent to the email now.
func (l *SendLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := "academy:otp:sends:" + email
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		_ = l.client.Expire(ctx, key, l.window).Err()
	}
	return n <= int64(l.max), nil
}
