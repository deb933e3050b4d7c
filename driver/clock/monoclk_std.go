//go:build !linux

package clock

import (
	"time"

	"go.uber.org/zap"

	"example.com/steptime/base/timebase"
	"example.com/steptime/base/timemath"
	"example.com/steptime/base/zaplog"
)

// Go's time.Time carries a monotonic reading; durations between two
// time.Now values are immune to wall-clock steps.
var epoch = time.Now()

type SystemClock struct {
	Log *zap.Logger
}

var _ timebase.Clock = (*SystemClock)(nil)

func (c *SystemClock) log() *zap.Logger {
	if c.Log == nil {
		return zaplog.Logger()
	}
	return c.Log
}

func (c *SystemClock) Ticks() uint64 {
	return timemath.Ticks(time.Since(epoch))
}

func (c *SystemClock) Resolution() uint64 {
	return 1
}

func (c *SystemClock) Sleep(duration time.Duration) {
	if duration < 0 {
		panic("invalid duration value")
	}
	t0 := time.Now()
	time.Sleep(duration)
	logOverrun(c.log(), duration, time.Since(t0))
}
