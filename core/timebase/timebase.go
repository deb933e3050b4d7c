package timebase

import (
	"sync/atomic"

	"example.com/steptime/base/timebase"
)

type clockHolder struct {
	c timebase.MonotonicClock
}

var (
	mclk atomic.Pointer[clockHolder]
)

func RegisterClock(c timebase.MonotonicClock) {
	if c == nil {
		panic("monotonic clock must not be nil")
	}
	swapped := mclk.CompareAndSwap(nil, &clockHolder{c: c})
	if !swapped {
		panic("monotonic clock already registered")
	}
}

func Clock() timebase.MonotonicClock {
	h := mclk.Load()
	if h == nil {
		panic("no monotonic clock registered")
	}
	return h.c
}

func Ticks() uint64 {
	return Clock().Ticks()
}

func Resolution() uint64 {
	return Clock().Resolution()
}
