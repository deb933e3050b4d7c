package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"example.com/steptime/base/metrics"
	"example.com/steptime/core/loop"
	"example.com/steptime/core/stepper"
	"example.com/steptime/driver/clock"
)

func newRunner(t *testing.T, clk *clock.FakeClock, hz uint32, mode loop.Mode) *loop.Runner {
	t.Helper()
	s, err := stepper.NewAccumulator(clk, hz)
	if err != nil {
		t.Fatalf("NewAccumulator(%d) failed: %v", hz, err)
	}
	return &loop.Runner{
		Log:     zap.NewNop(),
		Clock:   clk,
		Stepper: s,
		Mode:    mode,
	}
}

func TestRunCatchUp(t *testing.T) {
	for _, mode := range []loop.Mode{loop.ModeSplit, loop.ModeCombined} {
		t.Run(mode.String(), func(t *testing.T) {
			clk := &clock.FakeClock{}
			clk.Push(0, 50_000, 400_000, 400_000, 450_000)
			r := newRunner(t, clk, 10, mode)
			r.MaxFrames = 4

			var ticks []uint64
			stats, err := r.Run(context.Background(), func(tick uint64, dt float64) {
				if dt != 0.1 {
					t.Errorf("step dt = %v, want 0.1", dt)
				}
				ticks = append(ticks, tick)
			})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			want := loop.Stats{Frames: 4, Ticks: 4, MaxCatchUp: 4}
			if stats != want {
				t.Errorf("Run() = %+v, want %+v", stats, want)
			}
			for i, tick := range ticks {
				if tick != uint64(i) {
					t.Errorf("step %d called with tick %d", i, tick)
				}
			}
			if got := r.Stepper.Accumulated(); got != 50_000 {
				t.Errorf("Accumulated() = %d, want 50000", got)
			}
		})
	}
}

func TestRunClampsFrameDelta(t *testing.T) {
	clk := &clock.FakeClock{}
	clk.Push(0, 1_000_000)
	r := newRunner(t, clk, 10, loop.ModeSplit)
	r.MaxFrames = 1
	r.MaxFrameDelta = 250_000

	stats, err := r.Run(context.Background(), func(uint64, float64) {})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	want := loop.Stats{Frames: 1, Ticks: 2, MaxCatchUp: 2, Clamped: 1}
	if stats != want {
		t.Errorf("Run() = %+v, want %+v", stats, want)
	}
	if got := r.Stepper.Accumulated(); got != 50_000 {
		t.Errorf("Accumulated() = %d, want 50000", got)
	}
}

func TestRunPacesWithClock(t *testing.T) {
	clk := &clock.FakeClock{}
	r := newRunner(t, clk, 60, loop.ModeSplit)
	r.FrameInterval = time.Second / 60
	r.MaxFrames = 61

	stats, err := r.Run(context.Background(), func(uint64, float64) {})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	// The first frame sees no elapsed time; each later frame one interval.
	if stats.Ticks != 60 {
		t.Errorf("Run() ticks = %d, want 60", stats.Ticks)
	}
	if stats.MaxCatchUp != 1 {
		t.Errorf("Run() max catch-up = %d, want 1", stats.MaxCatchUp)
	}
}

func TestRunCanceled(t *testing.T) {
	clk := &clock.FakeClock{}
	r := newRunner(t, clk, 10, loop.ModeCombined)
	r.FrameInterval = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stats, err := r.Run(ctx, func(tick uint64, _ float64) {
		if tick == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	want := loop.Stats{Frames: 4, Ticks: 3, MaxCatchUp: 1}
	if stats != want {
		t.Errorf("Run() = %+v, want %+v", stats, want)
	}
}

func TestRunMetrics(t *testing.T) {
	clk := &clock.FakeClock{}
	clk.Push(0, 50_000, 400_000)
	r := newRunner(t, clk, 10, loop.ModeSplit)
	r.MaxFrames = 2
	reg := prometheus.NewRegistry()
	r.Registerer = reg

	_, err := r.Run(context.Background(), func(uint64, float64) {})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	got := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				got[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				got[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				got[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	want := map[string]float64{
		metrics.LoopFramesN:          2,
		metrics.LoopTicksN:           4,
		metrics.LoopCatchUpFramesN:   1,
		metrics.LoopClampedFramesN:   0,
		metrics.LoopRemainderMicroN:  0,
		metrics.LoopFrameDeltaMicroN: 2,
	}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("metric %s = %v, want %v", name, got[name], w)
		}
	}
}

func TestRunNotConfigured(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Run() on empty runner did not panic")
		}
	}()
	r := &loop.Runner{}
	_, _ = r.Run(context.Background(), func(uint64, float64) {})
}
