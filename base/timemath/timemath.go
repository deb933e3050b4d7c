package timemath

import (
	"math"
	"slices"
	"time"
)

// Ticks converts d to microsecond ticks, truncating. Negative durations are
// invalid.
func Ticks(d time.Duration) uint64 {
	if d < 0 {
		panic("invalid duration value")
	}
	return uint64(d / time.Microsecond)
}

func FromTicks(ticks uint64) time.Duration {
	if ticks > math.MaxInt64/uint64(time.Microsecond) {
		return math.MaxInt64
	}
	return time.Duration(ticks) * time.Microsecond
}

func Midpoint(x, y time.Duration) time.Duration {
	return x + (y-x)/2.0
}

func Median(ds []time.Duration) time.Duration {
	n := len(ds)
	if n == 0 {
		panic("unexpected number of values")
	}
	slices.Sort(ds)
	i := n / 2
	if n%2 != 0 {
		return ds[i]
	}
	return Midpoint(ds[i-1], ds[i])
}
