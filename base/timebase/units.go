package timebase

import (
	"errors"
	"fmt"
)

const (
	TicksPerSecond = 1_000_000

	MinFrequency = 1
	MaxFrequency = TicksPerSecond
)

var ErrInvalidFrequency = errors.New("invalid frequency")

func TicksToSeconds(ticks uint64) float64 {
	return float64(ticks) / float64(TicksPerSecond)
}

// StepDuration returns the number of ticks per step at frequency hz. The
// result is truncated, e.g. 3 Hz yields 333333 ticks.
func StepDuration(hz uint32) (uint64, error) {
	if hz < MinFrequency || hz > MaxFrequency {
		return 0, fmt.Errorf("%w: %d Hz, want [%d, %d]",
			ErrInvalidFrequency, hz, MinFrequency, MaxFrequency)
	}
	return TicksPerSecond / uint64(hz), nil
}
