package clock

import (
	"math"
	"sync"
	"time"

	"example.com/steptime/base/timebase"
	"example.com/steptime/base/timemath"
)

// FakeClock is a deterministic MonotonicClock. It only advances when told to
// and never consults an OS timer. The zero value starts at tick 0 with a
// resolution of 1 µs.
type FakeClock struct {
	mu         sync.Mutex
	ticks      uint64
	queue      []uint64
	resolution uint64
}

var _ timebase.Clock = (*FakeClock)(nil)

// Ticks returns the next queued reading if any, else the current one.
func (c *FakeClock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) != 0 {
		c.ticks = c.queue[0]
		c.queue = c.queue[1:]
	}
	return c.ticks
}

func (c *FakeClock) Resolution() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolution == 0 {
		return 1
	}
	return c.resolution
}

func (c *FakeClock) SetResolution(resolution uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolution = resolution
}

func (c *FakeClock) last() uint64 {
	if len(c.queue) != 0 {
		return c.queue[len(c.queue)-1]
	}
	return c.ticks
}

// Advance moves the clock forward by delta. With readings queued, the new
// reading is queued after them.
func (c *FakeClock) Advance(delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.last()
	if delta > math.MaxUint64-t {
		panic("fake clock overflow")
	}
	c.setLocked(t + delta)
}

func (c *FakeClock) Set(ticks uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticks < c.last() {
		panic("fake clock must not go backward")
	}
	c.setLocked(ticks)
}

func (c *FakeClock) setLocked(ticks uint64) {
	if len(c.queue) != 0 {
		c.queue = append(c.queue, ticks)
		return
	}
	c.ticks = ticks
}

// Push queues readings returned by subsequent calls to Ticks, one per call.
// The readings must not decrease.
func (c *FakeClock) Push(ticks ...uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.last()
	for _, x := range ticks {
		if x < t {
			panic("fake clock must not go backward")
		}
		t = x
	}
	c.queue = append(c.queue, ticks...)
}

// Sleep advances the clock by duration without blocking.
func (c *FakeClock) Sleep(duration time.Duration) {
	if duration < 0 {
		panic("invalid duration value")
	}
	c.Advance(timemath.Ticks(duration))
}
