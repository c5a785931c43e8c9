package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/notification"
)

// ==================== FAKES ====================

type recordedToast struct {
	Message string
	Kind    notification.Kind
}

type fakeNotifier struct {
	toasts []recordedToast
}

func (f *fakeNotifier) Enqueue(message string, kind notification.Kind, _ time.Duration) string {
	f.toasts = append(f.toasts, recordedToast{Message: message, Kind: kind})
	return "toast-id"
}

func (f *fakeNotifier) byKind(kind notification.Kind) []recordedToast {
	var out []recordedToast
	for _, toast := range f.toasts {
		if toast.Kind == kind {
			out = append(out, toast)
		}
	}
	return out
}

type failingSlot struct{}

func (failingSlot) Read(context.Context) ([]byte, error) { return nil, errors.New("slot down") }
func (failingSlot) Write(context.Context, []byte) error  { return errors.New("slot down") }

func newTestStore(t *testing.T) (*cart.Store, *cart.MemorySlot, *fakeNotifier) {
	t.Helper()
	slot := cart.NewMemorySlot()
	notifier := &fakeNotifier{}
	return cart.NewStore(context.Background(), slot, notifier, nil), slot, notifier
}

func product(id, name string, price int64) cart.Product {
	return cart.Product{
		ID:    id,
		Name:  name,
		Price: decimal.NewFromInt(price),
	}
}

// ==================== TEST CASES ====================

func TestStore_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("distinct_products_get_quantity_one", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.AddItem(ctx, product("p2", "Red Velvet", 3))
		store.AddItem(ctx, product("p3", "Oatmeal", 4))

		items := store.Items()
		require.Len(t, items, 3)
		for _, item := range items {
			assert.Equal(t, 1, item.Quantity)
		}
		assert.Equal(t, 3, store.TotalItemCount())
		assert.Len(t, notifier.byKind(notification.KindSuccess), 3)
	})

	t.Run("same_product_increments", func(t *testing.T) {
		store, _, _ := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.AddItem(ctx, product("p1", "Choco Chip", 5))

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("keeps_insertion_order", func(t *testing.T) {
		store, _, _ := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.AddItem(ctx, product("p2", "Red Velvet", 3))
		store.AddItem(ctx, product("p1", "Choco Chip", 5))

		items := store.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "p1", items[0].ID)
		assert.Equal(t, "p2", items[1].ID)
	})

	t.Run("persists_snapshot", func(t *testing.T) {
		store, slot, _ := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))

		data, err := slot.Read(ctx)
		require.NoError(t, err)

		var items []cart.LineItem
		require.NoError(t, json.Unmarshal(data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].ID)
	})
}

func TestStore_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates_in_place", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.SetQuantity(ctx, "p1", 7)

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Quantity)
		assert.Len(t, notifier.byKind(notification.KindInfo), 1)
	})

	t.Run("zero_behaves_as_removal", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.SetQuantity(ctx, "p1", 0)

		assert.Empty(t, store.Items())
		assert.Len(t, notifier.byKind(notification.KindWarning), 1)
		assert.Empty(t, notifier.byKind(notification.KindInfo))
	})

	t.Run("negative_behaves_as_removal", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.SetQuantity(ctx, "p1", -5)

		assert.Empty(t, store.Items())
		assert.Len(t, notifier.byKind(notification.KindWarning), 1)
		assert.Empty(t, notifier.byKind(notification.KindInfo))
	})

	t.Run("nameless_snapshot_item_still_updates", func(t *testing.T) {
		slot := cart.NewMemorySlot()
		require.NoError(t, slot.Write(ctx, []byte(`[{"id":"p1","name":"","price":"5","quantity":1}]`)))

		notifier := &fakeNotifier{}
		store := cart.NewStore(ctx, slot, notifier, nil)

		store.SetQuantity(ctx, "p1", 4)

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity)
		assert.Len(t, notifier.byKind(notification.KindInfo), 1)
	})

	t.Run("absent_id_is_silent_noop", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		before := len(notifier.toasts)

		store.SetQuantity(ctx, "ghost", 3)

		require.Len(t, store.Items(), 1)
		assert.Equal(t, 1, store.Items()[0].Quantity)
		assert.Len(t, notifier.toasts, before)
	})
}

func TestStore_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes_and_warns", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.RemoveItem(ctx, "p1")

		assert.Empty(t, store.Items())
		warnings := notifier.byKind(notification.KindWarning)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Message, "Choco Chip")
	})

	t.Run("absent_id_changes_nothing", func(t *testing.T) {
		store, _, notifier := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		before := len(notifier.toasts)

		store.RemoveItem(ctx, "ghost")

		assert.Len(t, store.Items(), 1)
		assert.Len(t, notifier.toasts, before)
	})

	t.Run("nameless_snapshot_item_removal_persists", func(t *testing.T) {
		slot := cart.NewMemorySlot()
		require.NoError(t, slot.Write(ctx, []byte(`[{"id":"p1","name":"","price":"5","quantity":1}]`)))

		notifier := &fakeNotifier{}
		store := cart.NewStore(ctx, slot, notifier, nil)

		store.RemoveItem(ctx, "p1")

		assert.Empty(t, store.Items())
		assert.Len(t, notifier.byKind(notification.KindWarning), 1)

		data, err := slot.Read(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))

		again := cart.NewStore(ctx, slot, nil, nil)
		assert.Empty(t, again.Items())
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, slot, notifier := newTestStore(t)

	store.AddItem(ctx, product("p1", "Choco Chip", 5))
	store.AddItem(ctx, product("p2", "Red Velvet", 3))
	store.Clear(ctx)

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.TotalItemCount())
	assert.Len(t, notifier.byKind(notification.KindInfo), 1)

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()

	t.Run("total_price_sums_subtotals", func(t *testing.T) {
		store, _, _ := newTestStore(t)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.SetQuantity(ctx, "p1", 2)
		store.AddItem(ctx, product("p2", "Red Velvet", 3))

		assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(13)),
			"expected 13, got %s", store.TotalPrice())
		assert.Equal(t, 3, store.TotalItemCount())
	})

	t.Run("empty_cart_totals_zero", func(t *testing.T) {
		store, _, _ := newTestStore(t)

		assert.True(t, store.TotalPrice().IsZero())
		assert.Equal(t, 0, store.TotalItemCount())
	})
}

func TestStore_Rehydration(t *testing.T) {
	ctx := context.Background()

	t.Run("restores_previous_snapshot", func(t *testing.T) {
		slot := cart.NewMemorySlot()

		first := cart.NewStore(ctx, slot, nil, nil)
		first.AddItem(ctx, product("p1", "Choco Chip", 5))
		first.AddItem(ctx, product("p1", "Choco Chip", 5))

		second := cart.NewStore(ctx, slot, nil, nil)
		items := second.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("malformed_snapshot_yields_empty_cart", func(t *testing.T) {
		slot := cart.NewMemorySlot()
		require.NoError(t, slot.Write(ctx, []byte("not json")))

		store := cart.NewStore(ctx, slot, nil, nil)
		assert.Empty(t, store.Items())
		assert.Equal(t, 0, store.TotalItemCount())
	})

	t.Run("empty_slot_yields_empty_cart", func(t *testing.T) {
		store := cart.NewStore(ctx, cart.NewMemorySlot(), nil, nil)
		assert.Empty(t, store.Items())
	})
}

func TestStore_SlotFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("construction_survives_read_failure", func(t *testing.T) {
		store := cart.NewStore(ctx, failingSlot{}, nil, nil)
		assert.Empty(t, store.Items())
	})

	t.Run("mutations_survive_write_failure", func(t *testing.T) {
		notifier := &fakeNotifier{}
		store := cart.NewStore(ctx, failingSlot{}, notifier, nil)

		store.AddItem(ctx, product("p1", "Choco Chip", 5))
		store.SetQuantity(ctx, "p1", 4)

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity)
		assert.Len(t, notifier.toasts, 2)
	})
}
