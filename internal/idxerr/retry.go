package idxerr

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig configures bounded exponential-backoff retry for transient
// IoError failures during snapshot writes (disk pressure, brief unlink
// races with a concurrent reader, etc.).
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns the backoff schedule used for snapshot I/O:
// three retries, starting at 50ms, capped at 1s, doubling each attempt.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retry runs fn, retrying while it returns a Retryable error, up to
// cfg.MaxRetries additional attempts with exponential backoff. It stops
// early if ctx is done or fn returns a non-retryable error.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return New(DeadlineExceeded, "retry: context done", ctx.Err())
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= cfg.MaxRetries {
			return lastErr
		}

		wait := delay
		if cfg.Jitter {
			wait = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
		}

		select {
		case <-ctx.Done():
			return New(DeadlineExceeded, "retry: context done", ctx.Err())
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}
