package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBackendUnreachable indicates the backend never answered a liveness poll
// before the readiness deadline.
var ErrBackendUnreachable = errors.New("backend unreachable")

// AwaitReady polls the liveness check at a fixed interval until it succeeds,
// the deadline elapses, or the context is cancelled.
//
// Polling is bounded: exhausting the deadline is a distinct failure rather
// than a hang. onAttempt, if non-nil, observes every poll's round-trip time
// and result.
func AwaitReady(ctx context.Context, ping func(context.Context) error, interval, timeout time.Duration, onAttempt func(latency time.Duration, err error)) error {
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start)

		if onAttempt != nil {
			onAttempt(latency, err)
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().Add(interval).After(deadline) {
			return fmt.Errorf("%w after %s: %v", ErrBackendUnreachable, timeout, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
