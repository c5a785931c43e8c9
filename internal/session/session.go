package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/notification"
)

// Session is the per-visitor state container: one cart store wired to
// one toast queue. It replaces what used to be ambient globals; it is
// built once per visitor and torn down explicitly so pending toast
// timers can't fire against dead state.
type Session struct {
	ID       string
	Cart     *cart.Store
	Toasts   *notification.Queue
	lastSeen time.Time
}

// SlotFactory builds the durable slot for a session's cart snapshot.
type SlotFactory func(sessionID string) cart.Slot

// Manager hands out sessions keyed by id and reaps idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	newSlot  SlotFactory
	ttl      time.Duration
	logger   *zap.Logger
}

func NewManager(newSlot SlotFactory, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		newSlot:  newSlot,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetOrCreate returns the session for id, creating it when unknown. An
// empty id gets a fresh one. The returned session's id is what the
// caller should hand back to the visitor.
func (m *Manager) GetOrCreate(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.lastSeen = time.Now()
			return s
		}
	} else {
		id = uuid.NewString()
	}

	toasts := notification.NewQueue(m.logger.Named("toasts"))
	s := &Session{
		ID:       id,
		Cart:     cart.NewStore(ctx, m.newSlot(id), toasts, m.logger.Named("cart")),
		Toasts:   toasts,
		lastSeen: time.Now(),
	}
	m.sessions[id] = s

	m.logger.Debug("session created", zap.String("session_id", id))
	return s
}

// Close tears down one session. Unknown ids are a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.Toasts.Close()
		delete(m.sessions, id)
	}
}

// CloseAll tears down every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.Toasts.Close()
		delete(m.sessions, id)
	}
}

// Reap drops sessions idle longer than the TTL. The cart snapshot stays
// in its durable slot, so a returning visitor rehydrates.
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	reaped := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			s.Toasts.Close()
			delete(m.sessions, id)
			reaped++
		}
	}
	return reaped
}

// RunReaper reaps on an interval until ctx is cancelled.
func (m *Manager) RunReaper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				m.logger.Info("idle sessions reaped", zap.Int("count", n))
			}
		}
	}
}
