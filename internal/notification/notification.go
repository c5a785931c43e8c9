package notification

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a toast stays visible unless the caller
// asks for something else.
const DefaultDuration = 2 * time.Second

// MaxVisible caps how many toasts are on screen at once. Enqueuing past
// the cap evicts the oldest entry first.
const MaxVisible = 2

type Notification struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Kind      Kind          `json:"kind"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}
