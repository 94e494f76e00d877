// Package progress carries crawl progress snapshots from the engine to
// whatever is displaying them.
package progress

import (
	"context"
	"sync"

	"github.com/law-makers/boxdiff/pkg/models"
)

// Emit delivers snap to sink. A nil sink drops the update. Delivery blocks
// until the consumer receives it or ctx is done, so snapshots arrive in
// the order they were produced.
func Emit(ctx context.Context, sink chan<- models.ProgressSnapshot, snap models.ProgressSnapshot) {
	if sink == nil {
		return
	}
	select {
	case sink <- snap:
	case <-ctx.Done():
	}
}

// Recorder collects every snapshot sent to its channel
type Recorder struct {
	ch    chan models.ProgressSnapshot
	done  chan struct{}
	once  sync.Once
	snaps []models.ProgressSnapshot
}

// NewRecorder starts a recorder draining its own channel
func NewRecorder() *Recorder {
	r := &Recorder{
		ch:   make(chan models.ProgressSnapshot),
		done: make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		for s := range r.ch {
			r.snaps = append(r.snaps, s)
		}
	}()
	return r
}

// Sink returns the channel producers should emit to
func (r *Recorder) Sink() chan<- models.ProgressSnapshot {
	return r.ch
}

// Snapshots stops recording and returns everything received so far.
// The sink must not be used after calling it.
func (r *Recorder) Snapshots() []models.ProgressSnapshot {
	r.once.Do(func() { close(r.ch) })
	<-r.done
	return r.snaps
}
