// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy defines how transient failures are retried
type Policy struct {
	Attempts   int           // total tries including the first
	Initial    time.Duration // delay before the second try
	Max        time.Duration // cap on any single delay
	Multiplier float64
	Jitter     float64 // fraction of the delay randomised, 0..1
	RetryOn    []int   // HTTP statuses worth another try
}

// DefaultPolicy retries rate limiting and gateway errors a few times
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		Initial:    500 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
		RetryOn: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// StatusError reports an HTTP response with an unwanted status
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.Code, http.StatusText(e.Code), e.URL)
}

// StatusCode returns the HTTP status
func (e *StatusError) StatusCode() int {
	return e.Code
}

// StatusCoder is implemented by errors that carry an HTTP status
type StatusCoder interface {
	StatusCode() int
}

// Do calls fn until it succeeds, returns a permanent error, or the policy's
// attempts run out. onRetry, when set, is called before every backoff.
func Do(ctx context.Context, p Policy, onRetry func(attempt int, err error), fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}
		lastErr = err

		if !p.Retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		delay := p.Backoff(attempt)
		if onRetry != nil {
			onRetry(attempt+1, err)
		}
		log.Debug().
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("backoff", delay).
			Err(err).
			Msg("Retrying after backoff")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

// Backoff returns the delay before try attempt+2
func (p Policy) Backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.Initial) * math.Pow(mult, float64(attempt))
	if p.Max > 0 && d > float64(p.Max) {
		d = float64(p.Max)
	}
	if p.Jitter > 0 {
		j := min(p.Jitter, 1)
		d = d * (1 - j + 2*j*rand.Float64())
	}
	return time.Duration(d)
}

// Retryable reports whether err is worth another attempt.
// Cancellation never is; statuses are checked against RetryOn.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return slices.Contains(p.RetryOn, sc.StatusCode())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
