package notification

import "time"

// Timer is a pending eviction that can be cancelled. Stop reports
// whether the timer was cancelled before firing; a false return means
// the callback already ran or is running, which callers must treat as a
// no-op on their side.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn to run after d. Tests swap this for a
// manually fired implementation.
type TimerFactory func(d time.Duration, fn func()) Timer

func realTimer(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
