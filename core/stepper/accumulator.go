package stepper

import (
	"math"

	"example.com/steptime/base/timebase"
)

// Accumulator runs steps of 1_000_000/hz microseconds, truncated. For
// frequencies that do not divide one million the truncation makes each step
// slightly short; see ExactAccumulator.
type Accumulator struct {
	clk         timebase.MonotonicClock
	accumulated uint64
	step        uint64
}

var _ Stepper = (*Accumulator)(nil)

func NewAccumulator(clk timebase.MonotonicClock, hz uint32) (*Accumulator, error) {
	if clk == nil {
		panic("monotonic clock must not be nil")
	}
	step, err := timebase.StepDuration(hz)
	if err != nil {
		return nil, err
	}
	return &Accumulator{clk: clk, step: step}, nil
}

func (a *Accumulator) Feed(delta uint64) {
	if delta > math.MaxUint64-a.accumulated {
		panic("accumulator overflow")
	}
	a.accumulated += delta
}

func (a *Accumulator) TryTick() bool {
	if a.accumulated < a.step {
		return false
	}
	a.accumulated -= a.step
	return true
}

func (a *Accumulator) TryConsume(delta uint64) bool {
	a.Feed(delta)
	return a.TryTick()
}

func (a *Accumulator) StepDuration() uint64 {
	return a.step
}

func (a *Accumulator) StepSeconds() float64 {
	return timebase.TicksToSeconds(a.step)
}

func (a *Accumulator) Accumulated() uint64 {
	return a.accumulated
}
