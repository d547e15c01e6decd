package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type delayedError struct {
	err   error
	after time.Duration
}

func (d *delayedError) Error() string { return d.err.Error() }
func (d *delayedError) Unwrap() error { return d.err }

// RetryAfter attaches a server-provided Retry-After header value (seconds or
// an HTTP date) to err. WithRetry waits that long, capped at MaxDelay,
// instead of its own backoff. Unparseable values leave err unchanged.
func RetryAfter(err error, header string) error {
	if err == nil || header == "" {
		return err
	}
	var after time.Duration
	if secs, convErr := strconv.Atoi(strings.TrimSpace(header)); convErr == nil {
		after = time.Duration(secs) * time.Second
	} else if at, parseErr := http.ParseTime(header); parseErr == nil {
		after = time.Until(at)
	} else {
		return err
	}
	if after < 0 {
		after = 0
	}
	return &delayedError{err: err, after: after}
}

// WithRetry executes a function with exponential backoff retry logic
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on context cancellation
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		// Last attempt, don't wait
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		var delayed *delayedError
		if errors.As(err, &delayed) {
			wait = min(delayed.after, cfg.MaxDelay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// IsRetryableHTTPStatus returns true if the HTTP status code is retryable
func IsRetryableHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout ||
		statusCode >= 500
}

// StatusError builds the error for a non-OK API response, marking it
// permanent unless the status is retryable.
func StatusError(api string, statusCode int, body []byte) error {
	err := fmt.Errorf("%s API error %d: %s", api, statusCode, string(body))
	if IsRetryableHTTPStatus(statusCode) {
		return err
	}
	return Permanent(err)
}
