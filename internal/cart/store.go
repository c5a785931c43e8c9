package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/notification"
)

// Notifier is how the store reports each mutation back to the user.
// The toast queue satisfies this.
type Notifier interface {
	Enqueue(message string, kind notification.Kind, duration time.Duration) string
}

// Store owns the line-item list for one session. Mutators are total:
// unknown ids degrade to no-ops and persistence failures are logged,
// never surfaced, so the in-memory cart stays usable even when the slot
// is down. Every mutation writes the full snapshot back to the slot.
type Store struct {
	mu       sync.Mutex
	items    []LineItem
	slot     Slot
	notifier Notifier
	logger   *zap.Logger
}

// NewStore rehydrates the cart from the slot. An empty, unreadable or
// malformed snapshot yields an empty cart rather than an error.
func NewStore(ctx context.Context, slot Slot, notifier Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		slot:     slot,
		notifier: notifier,
		logger:   logger,
	}

	data, err := slot.Read(ctx)
	if err != nil {
		logger.Warn("cart snapshot read failed, starting empty", zap.Error(err))
		return s
	}
	if len(data) == 0 {
		return s
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("cart snapshot malformed, starting empty", zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// AddItem appends the product with quantity 1, or bumps the quantity if
// it is already in the cart.
func (s *Store) AddItem(ctx context.Context, p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			Quantity: 1,
		})
	}

	s.persistLocked(ctx)
	s.notify(fmt.Sprintf("%s added to cart", p.Name), notification.KindSuccess)
}

// SetQuantity updates a line item in place. A quantity of zero or less
// is a removal, including the removal toast; there is no separate
// "updated" toast in that case. An absent id still persists (no-op on
// the list) and emits nothing.
func (s *Store) SetQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	var name string
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			name = s.items[i].Name
			found = true
			break
		}
	}

	s.persistLocked(ctx)
	if found {
		s.notify(fmt.Sprintf("%s quantity updated", name), notification.KindInfo)
	}
}

// RemoveItem deletes the line item if present. Absent ids change
// nothing and emit nothing.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	var name string
	for i := range s.items {
		if s.items[i].ID == id {
			name = s.items[i].Name
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}

	if !found {
		return
	}

	s.persistLocked(ctx)
	s.notify(fmt.Sprintf("%s removed from cart", name), notification.KindWarning)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked(ctx)
	s.notify("Cart emptied", notification.KindInfo)
}

// Items returns a copy in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// TotalPrice sums price * quantity over the cart. Zero for an empty cart.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItemCount sums quantities over the cart.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// persistLocked writes the full snapshot. Failures are swallowed so a
// broken slot never blocks the cart.
func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("cart snapshot marshal failed", zap.Error(err))
		return
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.logger.Warn("cart snapshot write failed", zap.Error(err))
	}
}

func (s *Store) notify(message string, kind notification.Kind) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(message, kind, notification.DefaultDuration)
}
