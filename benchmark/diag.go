package benchmark

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"example.com/steptime/base/timebase"
	"example.com/steptime/base/timemath"
)

const (
	DefaultSleepTarget = 100 * time.Millisecond

	sleepSamples = 5
)

var (
	ErrNotMonotonic = errors.New("clock is not monotonic")
	ErrUndersleep   = errors.New("clock reported less time than was slept")
)

type Report struct {
	Resolution uint64
	// KernelTicksPerSecond is the kernel's USER_HZ where available, else 0.
	KernelTicksPerSecond int64
	SleepTarget          time.Duration
	// Slept is the shortest measured sleep, in microseconds.
	Slept           uint64
	MedianOversleep time.Duration
}

// RunClockDiagnostics checks that clk reports a resolution, that two
// consecutive readings do not decrease and that a sleep of sleepTarget is
// never measured as shorter than requested. The OS may oversleep.
func RunClockDiagnostics(log *zap.Logger, clk timebase.Clock, sleepTarget time.Duration) (
	Report, error) {
	r := Report{
		Resolution:           clk.Resolution(),
		KernelTicksPerSecond: kernelTicksPerSecond(log),
		SleepTarget:          sleepTarget,
	}
	log.Info("clock resolution",
		zap.Uint64("resolution", r.Resolution),
		zap.Int64("kernelTicksPerSecond", r.KernelTicksPerSecond),
	)

	t0 := clk.Ticks()
	t1 := clk.Ticks()
	if t1 < t0 {
		log.Error("clock went backward", zap.Uint64("t0", t0), zap.Uint64("t1", t1))
		return r, ErrNotMonotonic
	}
	log.Info("monotonicity check passed")

	oversleeps := make([]time.Duration, 0, sleepSamples)
	for i := 0; i < sleepSamples; i++ {
		start := clk.Ticks()
		clk.Sleep(sleepTarget)
		end := clk.Ticks()
		if end < start {
			log.Error("clock went backward", zap.Uint64("t0", start), zap.Uint64("t1", end))
			return r, ErrNotMonotonic
		}
		slept := end - start
		log.Debug("sleep measured",
			zap.Duration("target", sleepTarget),
			zap.Uint64("slept", slept),
			zap.Float64("seconds", timebase.TicksToSeconds(slept)),
		)
		if i == 0 || slept < r.Slept {
			r.Slept = slept
		}
		if slept < timemath.Ticks(sleepTarget) {
			log.Error("sleep measured shorter than requested",
				zap.Duration("target", sleepTarget), zap.Uint64("slept", slept))
			return r, ErrUndersleep
		}
		oversleeps = append(oversleeps, timemath.FromTicks(slept)-sleepTarget)
	}
	r.MedianOversleep = timemath.Median(oversleeps)
	log.Info("sleep check passed",
		zap.Duration("target", sleepTarget),
		zap.Uint64("minSlept", r.Slept),
		zap.Duration("medianOversleep", r.MedianOversleep),
	)
	return r, nil
}
