package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/session"
)

func newManager(ttl time.Duration) *session.Manager {
	return session.NewManager(func(string) cart.Slot {
		return cart.NewMemorySlot()
	}, ttl, nil)
}

func TestManager_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty_id_mints_session", func(t *testing.T) {
		m := newManager(time.Hour)
		defer m.CloseAll()

		s := m.GetOrCreate(ctx, "")
		require.NotNil(t, s)
		assert.NotEmpty(t, s.ID)
		assert.NotNil(t, s.Cart)
		assert.NotNil(t, s.Toasts)
	})

	t.Run("known_id_returns_same_session", func(t *testing.T) {
		m := newManager(time.Hour)
		defer m.CloseAll()

		first := m.GetOrCreate(ctx, "")
		second := m.GetOrCreate(ctx, first.ID)
		assert.Same(t, first, second)
	})

	t.Run("unknown_id_is_adopted_for_rehydration", func(t *testing.T) {
		m := newManager(time.Hour)
		defer m.CloseAll()

		// a reaped or pre-restart id keeps its slot key; callers vet
		// ids before passing them in
		id := uuid.NewString()
		s := m.GetOrCreate(ctx, id)
		assert.Equal(t, id, s.ID)
	})
}

func TestManager_Close(t *testing.T) {
	ctx := context.Background()
	m := newManager(time.Hour)

	s := m.GetOrCreate(ctx, "")
	s.Toasts.Enqueue("pending", "info", time.Minute)
	m.Close(s.ID)

	// closed queue rejects further work and dropped its entries
	assert.Empty(t, s.Toasts.Visible())

	// a new session under the same id is a fresh object
	again := m.GetOrCreate(ctx, s.ID)
	assert.NotSame(t, s, again)
	m.CloseAll()
}

func TestManager_Reap(t *testing.T) {
	ctx := context.Background()
	m := newManager(time.Nanosecond)

	m.GetOrCreate(ctx, "idle-1")
	m.GetOrCreate(ctx, "idle-2")
	time.Sleep(time.Millisecond)

	assert.Equal(t, 2, m.Reap())
	assert.Equal(t, 0, m.Reap())
}
