package loop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/steptime/base/metrics"
)

type loopMetrics struct {
	frames         prometheus.Counter
	ticks          prometheus.Counter
	catchUpFrames  prometheus.Counter
	clampedFrames  prometheus.Counter
	remainderMicro prometheus.Gauge
	frameDelta     prometheus.Histogram
}

func newLoopMetrics(reg prometheus.Registerer) *loopMetrics {
	f := promauto.With(reg)
	return &loopMetrics{
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: metrics.LoopFramesN,
			Help: metrics.LoopFramesH,
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: metrics.LoopTicksN,
			Help: metrics.LoopTicksH,
		}),
		catchUpFrames: f.NewCounter(prometheus.CounterOpts{
			Name: metrics.LoopCatchUpFramesN,
			Help: metrics.LoopCatchUpFramesH,
		}),
		clampedFrames: f.NewCounter(prometheus.CounterOpts{
			Name: metrics.LoopClampedFramesN,
			Help: metrics.LoopClampedFramesH,
		}),
		remainderMicro: f.NewGauge(prometheus.GaugeOpts{
			Name: metrics.LoopRemainderMicroN,
			Help: metrics.LoopRemainderMicroH,
		}),
		frameDelta: f.NewHistogram(prometheus.HistogramOpts{
			Name:    metrics.LoopFrameDeltaMicroN,
			Help:    metrics.LoopFrameDeltaMicroH,
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		}),
	}
}
