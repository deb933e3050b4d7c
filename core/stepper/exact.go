package stepper

import (
	"math"
	"math/bits"

	"example.com/steptime/base/timebase"
)

// ExactAccumulator runs exactly hz steps per second of input. Time is kept in
// units of 1/hz µs, so a step is always TicksPerSecond units and no rounding
// error carries over between steps.
type ExactAccumulator struct {
	clk    timebase.MonotonicClock
	hz     uint64
	scaled uint64
}

var _ Stepper = (*ExactAccumulator)(nil)

func NewExactAccumulator(clk timebase.MonotonicClock, hz uint32) (*ExactAccumulator, error) {
	if clk == nil {
		panic("monotonic clock must not be nil")
	}
	_, err := timebase.StepDuration(hz)
	if err != nil {
		return nil, err
	}
	return &ExactAccumulator{clk: clk, hz: uint64(hz)}, nil
}

func (a *ExactAccumulator) Feed(delta uint64) {
	hi, lo := bits.Mul64(delta, a.hz)
	if hi != 0 || lo > math.MaxUint64-a.scaled {
		panic("accumulator overflow")
	}
	a.scaled += lo
}

func (a *ExactAccumulator) TryTick() bool {
	if a.scaled < timebase.TicksPerSecond {
		return false
	}
	a.scaled -= timebase.TicksPerSecond
	return true
}

func (a *ExactAccumulator) TryConsume(delta uint64) bool {
	a.Feed(delta)
	return a.TryTick()
}

// StepDuration returns the nominal step, truncated to whole microseconds.
func (a *ExactAccumulator) StepDuration() uint64 {
	return timebase.TicksPerSecond / a.hz
}

func (a *ExactAccumulator) StepSeconds() float64 {
	return 1.0 / float64(a.hz)
}

// Accumulated returns the remainder in whole microseconds. The exact
// remainder may exceed the truncated StepDuration by less than 1 µs; the
// result is capped so it stays below StepDuration after a drain.
func (a *ExactAccumulator) Accumulated() uint64 {
	r := a.scaled / a.hz
	if step := a.StepDuration(); a.scaled < timebase.TicksPerSecond && r >= step {
		return step - 1
	}
	return r
}
