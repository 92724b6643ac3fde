package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
)

// ProgressFunc is called after each file with the files done so far, the
// files expected, the file just finished and its error, if any.
type ProgressFunc func(done, total int, path string, err error)

// Tracker counts files as MapSources finishes them and remembers the ones
// that failed. It is safe for concurrent use.
type Tracker struct {
	total    atomic.Int32
	done     atomic.Int32
	callback ProgressFunc

	mu     sync.Mutex
	failed []string
}

// NewTracker creates a tracker; callback may be nil.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// Finish records path as done.
func (t *Tracker) Finish(path string, err error) {
	if err != nil {
		t.mu.Lock()
		t.failed = append(t.failed, path)
		t.mu.Unlock()
	}
	done := int(t.done.Add(1))
	if t.callback != nil {
		t.callback(done, int(t.total.Load()), path, err)
	}
}

// Done returns the number of finished files.
func (t *Tracker) Done() int {
	return int(t.done.Load())
}

// Total returns the expected total.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// Failed returns the files that could not be read or processed, in the
// order they finished.
func (t *Tracker) Failed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.failed...)
}

type trackerKey struct{}

// WithTracker returns a context carrying t for MapSources.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
