package notification_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elkisser/the-cookie-box/internal/notification"
)

// ==================== FAKE TIMERS ====================

type fakeTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) factory(_ time.Duration, fn func()) notification.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func newTestQueue() (*notification.Queue, *fakeClock) {
	clock := &fakeClock{}
	return notification.NewQueue(nil, notification.WithTimerFactory(clock.factory)), clock
}

// ==================== TEST CASES ====================

func TestQueue_Enqueue(t *testing.T) {
	t.Run("returns_id_and_is_visible", func(t *testing.T) {
		q, _ := newTestQueue()

		id := q.Enqueue("Cookie added to cart", notification.KindSuccess, 0)
		assert.NotEmpty(t, id)

		visible := q.Visible()
		assert.Len(t, visible, 1)
		assert.Equal(t, id, visible[0].ID)
		assert.Equal(t, "Cookie added to cart", visible[0].Message)
		assert.Equal(t, notification.KindSuccess, visible[0].Kind)
		assert.Equal(t, notification.DefaultDuration, visible[0].Duration)
	})

	t.Run("cap_evicts_oldest", func(t *testing.T) {
		q, _ := newTestQueue()

		first := q.Enqueue("first", notification.KindInfo, 0)
		second := q.Enqueue("second", notification.KindInfo, 0)
		third := q.Enqueue("third", notification.KindInfo, 0)

		visible := q.Visible()
		assert.Len(t, visible, notification.MaxVisible)
		assert.Equal(t, second, visible[0].ID)
		assert.Equal(t, third, visible[1].ID)

		for _, n := range visible {
			assert.NotEqual(t, first, n.ID)
		}
	})

	t.Run("cap_eviction_cancels_timer", func(t *testing.T) {
		q, clock := newTestQueue()

		q.Enqueue("first", notification.KindInfo, 0)
		q.Enqueue("second", notification.KindInfo, 0)
		q.Enqueue("third", notification.KindInfo, 0)

		assert.True(t, clock.timers[0].stopped)
		assert.False(t, clock.timers[1].stopped)
		assert.False(t, clock.timers[2].stopped)
	})
}

func TestQueue_Dismiss(t *testing.T) {
	t.Run("removes_and_cancels_timer", func(t *testing.T) {
		q, clock := newTestQueue()

		id := q.Enqueue("bye", notification.KindWarning, 0)
		q.Dismiss(id)

		assert.Empty(t, q.Visible())
		assert.True(t, clock.timers[0].stopped)
	})

	t.Run("unknown_id_is_noop", func(t *testing.T) {
		q, _ := newTestQueue()

		q.Enqueue("stay", notification.KindInfo, 0)
		q.Dismiss("nope")

		assert.Len(t, q.Visible(), 1)
	})

	t.Run("dismiss_twice_is_noop", func(t *testing.T) {
		q, _ := newTestQueue()

		id := q.Enqueue("once", notification.KindInfo, 0)
		q.Dismiss(id)
		q.Dismiss(id)

		assert.Empty(t, q.Visible())
	})
}

func TestQueue_TimerExpiry(t *testing.T) {
	t.Run("expiry_evicts", func(t *testing.T) {
		q, clock := newTestQueue()

		q.Enqueue("gone soon", notification.KindInfo, 0)
		clock.timers[0].fire()

		assert.Empty(t, q.Visible())
	})

	t.Run("expiry_then_dismiss_is_noop", func(t *testing.T) {
		q, clock := newTestQueue()

		id := q.Enqueue("gone soon", notification.KindInfo, 0)
		clock.timers[0].fire()
		q.Dismiss(id)

		assert.Empty(t, q.Visible())
	})

	t.Run("real_timer_expires", func(t *testing.T) {
		q := notification.NewQueue(nil)
		defer q.Close()

		q.Enqueue("blink", notification.KindInfo, 20*time.Millisecond)
		assert.Len(t, q.Visible(), 1)

		assert.Eventually(t, func() bool {
			return len(q.Visible()) == 0
		}, time.Second, 5*time.Millisecond)
	})
}

func TestQueue_Close(t *testing.T) {
	q, clock := newTestQueue()

	q.Enqueue("a", notification.KindInfo, 0)
	q.Enqueue("b", notification.KindInfo, 0)
	q.Close()

	assert.Empty(t, q.Visible())
	for _, timer := range clock.timers {
		assert.True(t, timer.stopped)
	}

	// enqueue after close must not schedule anything
	id := q.Enqueue("late", notification.KindInfo, 0)
	assert.Empty(t, id)
	assert.Empty(t, q.Visible())
}
