package internal

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

// WithTimeout returns a context with timeout, defaulting to DefaultTimeout if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultTimeout
	}
	return context.WithTimeout(ctx, duration)
}
