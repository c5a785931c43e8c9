package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Queue holds the toasts currently on screen. Every entry schedules its
// own eviction; dismissing cancels the pending timer, and an eviction
// racing a dismiss degrades to a no-op because removal by id is
// idempotent.
type Queue struct {
	mu       sync.Mutex
	entries  []*entry
	closed   bool
	newTimer TimerFactory
	logger   *zap.Logger
}

type entry struct {
	Notification
	timer Timer
}

type Option func(*Queue)

// WithTimerFactory replaces the wall-clock timers, for tests.
func WithTimerFactory(f TimerFactory) Option {
	return func(q *Queue) { q.newTimer = f }
}

func NewQueue(logger *zap.Logger, opts ...Option) *Queue {
	q := &Queue{
		newTimer: realTimer,
		logger:   logger,
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a toast and returns its id. At the cap the oldest
// entry is evicted synchronously before the new one is added.
func (q *Queue) Enqueue(message string, kind Kind, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ""
	}

	for len(q.entries) >= MaxVisible {
		q.evictLocked(q.entries[0].ID)
	}

	e := &entry{
		Notification: Notification{
			ID:        uuid.NewString(),
			Message:   message,
			Kind:      kind,
			Duration:  duration,
			CreatedAt: time.Now(),
		},
	}
	id := e.ID
	e.timer = q.newTimer(duration, func() { q.Dismiss(id) })
	q.entries = append(q.entries, e)

	q.logger.Debug("toast enqueued",
		zap.String("id", id),
		zap.String("kind", string(kind)),
	)
	return id
}

// Dismiss removes the toast with the given id. Unknown or already
// evicted ids are a safe no-op, so a fired timer and an explicit
// dismissal never conflict.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.evictLocked(id)
}

func (q *Queue) evictLocked(id string) {
	for i, e := range q.entries {
		if e.ID == id {
			e.timer.Stop()
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Visible returns the toasts currently on screen, oldest first.
func (q *Queue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.Notification)
	}
	return out
}

// Close cancels every pending eviction. The queue rejects enqueues after
// this, so timers torn down with their owning session can't fire against
// stale state.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	q.closed = true
}
