package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAwaitReadyImmediate(t *testing.T) {
	attempts := 0
	ping := func(ctx context.Context) error {
		attempts++
		return nil
	}

	err := AwaitReady(context.Background(), ping, time.Millisecond, time.Second, nil)
	if err != nil {
		t.Fatalf("AwaitReady: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestAwaitReadyEventualSuccess(t *testing.T) {
	attempts := 0
	ping := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := AwaitReady(context.Background(), ping, time.Millisecond, time.Second, nil)
	if err != nil {
		t.Fatalf("AwaitReady: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAwaitReadyExhaustion(t *testing.T) {
	ping := func(ctx context.Context) error {
		return errors.New("connection refused")
	}

	err := AwaitReady(context.Background(), ping, 5*time.Millisecond, 30*time.Millisecond, nil)
	if !errors.Is(err, ErrBackendUnreachable) {
		t.Fatalf("error = %v, want ErrBackendUnreachable", err)
	}
}

func TestAwaitReadyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	ping := func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("connection refused")
	}

	err := AwaitReady(ctx, ping, time.Millisecond, time.Minute, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if attempts > 3 {
		t.Errorf("kept polling after cancellation: %d attempts", attempts)
	}
}

func TestAwaitReadyObserver(t *testing.T) {
	attempts := 0
	ping := func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("connection refused")
		}
		return nil
	}

	var observed []error
	onAttempt := func(latency time.Duration, err error) {
		if latency < 0 {
			t.Errorf("negative latency %v", latency)
		}
		observed = append(observed, err)
	}

	if err := AwaitReady(context.Background(), ping, time.Millisecond, time.Second, onAttempt); err != nil {
		t.Fatalf("AwaitReady: %v", err)
	}
	if len(observed) != 2 {
		t.Fatalf("observed %d attempts, want 2", len(observed))
	}
	if observed[0] == nil {
		t.Error("first attempt should have been observed as a failure")
	}
	if observed[1] != nil {
		t.Errorf("final attempt observed as failure: %v", observed[1])
	}
}
