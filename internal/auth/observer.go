package auth

import "sync"

// Observer receives the new auth state on every transition: the signed
// in user, or nil after sign-out.
type Observer func(user *AuthResponse)

// Subscription is the cancellable handle returned by Subscribe. Callers
// must Unsubscribe on teardown so a dead consumer never gets called.
type Subscription struct {
	once sync.Once
	drop func()
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.drop)
}

// observerRegistry tracks one process-wide auth state: the most recent
// sign-in or sign-out wins, and every subscriber sees the same
// transition stream. It is not per-principal state.
type observerRegistry struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]Observer
	current   *AuthResponse
}

func newObserverRegistry() *observerRegistry {
	return &observerRegistry{observers: make(map[int]Observer)}
}

// subscribe registers fn and fires it once immediately with the current
// state, matching what consumers expect on initial load.
func (r *observerRegistry) subscribe(fn Observer) *Subscription {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	current := r.current
	r.mu.Unlock()

	fn(current)

	return &Subscription{drop: func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}}
}

func (r *observerRegistry) transition(user *AuthResponse) {
	r.mu.Lock()
	r.current = user
	observers := make([]Observer, 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.mu.Unlock()

	for _, fn := range observers {
		fn(user)
	}
}
