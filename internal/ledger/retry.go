package ledger

import (
	"context"
	"strings"
	"time"
)

// IsRateLimited matches the remote store's throttling signature. The store
// wraps HTTP status into message text, so detection is by string, not type.
func IsRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}

// RetryPolicy reruns a remote operation a fixed number of times. Rate-limit
// failures get an extra delay; other failures retry immediately. A
// successful attempt is followed by a short settle pause so bursts of
// appends stay under the store's quota.
type RetryPolicy struct {
	MaxAttempts    int
	SettleDelay    time.Duration
	RateLimitDelay time.Duration
	IsRateLimit    func(error) bool
	Sleep          func(ctx context.Context, d time.Duration)
}

// DefaultRetryPolicy mirrors the store's observed quota behavior: 3
// attempts, 1s settle, 5s on throttling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		SettleDelay:    time.Second,
		RateLimitDelay: 5 * time.Second,
		IsRateLimit:    IsRateLimited,
		Sleep:          sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run executes op until it succeeds or attempts are exhausted, returning
// the last error. onRateLimit fires at most once per call, on the first
// throttled failure, before the rate-limit delay.
func (p RetryPolicy) Run(ctx context.Context, op func(context.Context) error, onRateLimit func(error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	isRateLimit := p.IsRateLimit
	if isRateLimit == nil {
		isRateLimit = IsRateLimited
	}

	var lastErr error
	notified := false
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			sleep(ctx, p.SettleDelay)
			return nil
		}
		lastErr = err
		if isRateLimit(err) {
			if !notified && onRateLimit != nil {
				onRateLimit(err)
				notified = true
			}
			sleep(ctx, p.RateLimitDelay)
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
