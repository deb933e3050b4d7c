package timebase

import (
	"time"
)

// MonotonicClock reports elapsed time in microsecond ticks since an arbitrary,
// process-stable epoch. Readings never decrease and are unaffected by
// wall-clock adjustments.
type MonotonicClock interface {
	Ticks() uint64
	Resolution() uint64
}

// Clock is a MonotonicClock that can also block the caller.
type Clock interface {
	MonotonicClock
	Sleep(duration time.Duration)
}
