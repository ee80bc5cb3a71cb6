package services

import (
	"context"
	"time"
)

// detachedContext keeps ctx's values, including the request logger, but not
// its cancellation. The result is bounded by timeout.
func detachedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
