// Package loop drives a fixed-step simulation from a monotonic clock.
package loop

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"example.com/steptime/base/timebase"
	"example.com/steptime/core/stepper"
)

type Mode int

const (
	ModeSplit Mode = iota
	ModeCombined
)

func (m Mode) String() string {
	switch m {
	case ModeSplit:
		return "split"
	case ModeCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// StepFunc is called once per fixed step with the step index, starting at 0,
// and the step length in seconds.
type StepFunc func(tick uint64, dt float64)

type Stats struct {
	Frames     uint64
	Ticks      uint64
	MaxCatchUp uint64
	Clamped    uint64
}

// Runner is not safe for concurrent use; it owns its Stepper for the
// duration of Run.
type Runner struct {
	Log           *zap.Logger
	Clock         timebase.Clock
	Stepper       stepper.Stepper
	Mode          Mode
	FrameInterval time.Duration
	// MaxFrameDelta caps the elapsed time fed per frame, in microseconds.
	// Zero disables the cap.
	MaxFrameDelta uint64
	// MaxFrames stops Run after that many frames. Zero runs until ctx is
	// done.
	MaxFrames uint64
	// Registerer receives the loop metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

func (r *Runner) drain(delta uint64) uint64 {
	var n int
	switch r.Mode {
	case ModeCombined:
		n = stepper.DrainCombined(r.Stepper, delta)
	case ModeSplit:
		n = stepper.DrainSplit(r.Stepper, delta)
	default:
		panic("unexpected loop mode")
	}
	return uint64(n)
}

func (r *Runner) Run(ctx context.Context, step StepFunc) (Stats, error) {
	if r.Clock == nil || r.Stepper == nil || step == nil {
		panic("loop runner not fully configured")
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	var mtrcs *loopMetrics
	if r.Registerer != nil {
		mtrcs = newLoopMetrics(r.Registerer)
	}

	var stats Stats
	dt := r.Stepper.StepSeconds()
	log.Info("starting loop",
		zap.Stringer("mode", r.Mode),
		zap.Uint64("step", r.Stepper.StepDuration()),
		zap.Duration("frameInterval", r.FrameInterval),
		zap.Uint64("maxFrameDelta", r.MaxFrameDelta),
	)

	last := r.Clock.Ticks()
	for {
		select {
		case <-ctx.Done():
			log.Info("loop stopped", zap.Error(ctx.Err()),
				zap.Uint64("frames", stats.Frames), zap.Uint64("ticks", stats.Ticks))
			return stats, ctx.Err()
		default:
		}
		if r.MaxFrames != 0 && stats.Frames == r.MaxFrames {
			log.Info("loop finished",
				zap.Uint64("frames", stats.Frames), zap.Uint64("ticks", stats.Ticks))
			return stats, nil
		}

		now := r.Clock.Ticks()
		if now < last {
			log.Fatal("monotonic clock went backward",
				zap.Uint64("last", last), zap.Uint64("now", now))
		}
		delta := now - last
		last = now
		if mtrcs != nil {
			mtrcs.frameDelta.Observe(float64(delta))
		}
		if r.MaxFrameDelta != 0 && delta > r.MaxFrameDelta {
			log.Debug("clamping frame delta",
				zap.Uint64("delta", delta), zap.Uint64("max", r.MaxFrameDelta))
			delta = r.MaxFrameDelta
			stats.Clamped++
			if mtrcs != nil {
				mtrcs.clampedFrames.Inc()
			}
		}

		n := r.drain(delta)
		for i := uint64(0); i < n; i++ {
			step(stats.Ticks+i, dt)
		}
		stats.Frames++
		stats.Ticks += n
		if n > stats.MaxCatchUp {
			stats.MaxCatchUp = n
		}
		if n > 1 {
			log.Debug("catching up", zap.Uint64("steps", n), zap.Uint64("delta", delta))
		}
		if mtrcs != nil {
			mtrcs.frames.Inc()
			mtrcs.ticks.Add(float64(n))
			if n > 1 {
				mtrcs.catchUpFrames.Inc()
			}
			mtrcs.remainderMicro.Set(float64(r.Stepper.Accumulated()))
		}

		if r.FrameInterval > 0 {
			r.Clock.Sleep(r.FrameInterval)
		}
	}
}
