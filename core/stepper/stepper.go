// Package stepper converts an irregular stream of elapsed-time samples into a
// regular stream of fixed-size simulation steps.
//
// Accumulators are not safe for concurrent use. At most one goroutine may
// call Feed, TryTick or TryConsume on a given instance at a time; callers
// that need shared access must serialize it themselves.
package stepper

// Stepper is implemented by Accumulator and ExactAccumulator.
type Stepper interface {
	// Feed adds delta microseconds of elapsed time exactly once.
	Feed(delta uint64)
	// TryTick consumes one step if a full step has accumulated.
	TryTick() bool
	// TryConsume is Feed(delta) followed by TryTick(). To drain a large
	// delta, pass it on the first call and 0 on every following call until
	// it returns false.
	TryConsume(delta uint64) bool
	StepDuration() uint64
	StepSeconds() float64
	// Accumulated is below StepDuration after a full drain.
	Accumulated() uint64
}

// DrainCombined drains delta with TryConsume and returns the number of steps.
func DrainCombined(s Stepper, delta uint64) int {
	n := 0
	for s.TryConsume(delta) {
		delta = 0
		n++
	}
	return n
}

// DrainSplit drains delta with Feed and TryTick and returns the number of
// steps.
func DrainSplit(s Stepper, delta uint64) int {
	s.Feed(delta)
	n := 0
	for s.TryTick() {
		n++
	}
	return n
}
