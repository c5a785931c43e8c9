package cart

import "context"

// Slot is the durable key-value location a cart snapshot lives in. A
// slot is bound to its key; the store never sees key names. Writes are
// last-writer-wins with no coordination, which is accepted behavior for
// a cart shared across tabs.
type Slot interface {
	// Read returns the stored snapshot, or (nil, nil) when the slot has
	// never been written.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// MemorySlot keeps the snapshot in process memory. Used for anonymous
// sessions without a configured Redis and in tests.
type MemorySlot struct {
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read(_ context.Context) ([]byte, error) {
	return s.data, nil
}

func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}
