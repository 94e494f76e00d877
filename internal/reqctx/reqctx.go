// Package reqctx tags a comparison run with an id that follows it through
// the logs.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// Run describes one comparison invocation
type Run struct {
	ID        string
	Mode      string
	UserA     string
	UserB     string
	StartTime time.Time
}

// Elapsed returns the time since the run started
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}

// WithRun starts a run and attaches it, and a logger carrying its id, to ctx
func WithRun(ctx context.Context, mode, userA, userB string) context.Context {
	run := &Run{
		ID:        generateID(),
		Mode:      mode,
		UserA:     userA,
		UserB:     userB,
		StartTime: time.Now(),
	}
	logger := log.With().
		Str("run_id", run.ID).
		Str("mode", mode).
		Logger()

	ctx = context.WithValue(ctx, runKey, run)
	return logger.WithContext(ctx)
}

// FromContext returns the run attached to ctx, or a placeholder
func FromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey).(*Run); ok {
		return r
	}
	return &Run{
		ID:        "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the run's logger, falling back to the global one
func Logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l != zerolog.DefaultContextLogger && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error with the id of the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// WrapError tags err with the run id from ctx. nil stays nil.
func WrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: FromContext(ctx).ID,
		Err:   err,
	}
}
