package benchmark

import (
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"example.com/steptime/base/timebase"
)

type JitterResult struct {
	Samples int64
	Mean    float64
	StdDev  float64
	P50     int64
	P99     int64
	Max     int64
}

// RunJitterBenchmark sleeps interval n times and records each measured frame
// delta, in microseconds, in an HDR histogram whose percentiles are printed
// to w.
func RunJitterBenchmark(log *zap.Logger, clk timebase.Clock, n int, interval time.Duration,
	w io.Writer) (JitterResult, error) {
	if n <= 0 {
		panic("invalid number of samples")
	}
	hg := hdrhistogram.New(1, 10_000_000, 3)
	last := clk.Ticks()
	for i := n; i > 0; i-- {
		clk.Sleep(interval)
		now := clk.Ticks()
		err := hg.RecordValue(int64(now - last))
		if err != nil {
			log.Error("failed to record histogram value", zap.Uint64("delta", now-last), zap.Error(err))
			return JitterResult{}, err
		}
		last = now
	}
	_, err := hg.PercentilesPrint(w, 1, 1.0)
	if err != nil {
		return JitterResult{}, err
	}
	r := JitterResult{
		Samples: hg.TotalCount(),
		Mean:    hg.Mean(),
		StdDev:  hg.StdDev(),
		P50:     hg.ValueAtQuantile(50),
		P99:     hg.ValueAtQuantile(99),
		Max:     hg.Max(),
	}
	log.Info("frame delta distribution",
		zap.Duration("interval", interval),
		zap.Int64("samples", r.Samples),
		zap.Float64("mean", r.Mean),
		zap.Float64("stddev", r.StdDev),
		zap.Int64("p50", r.P50),
		zap.Int64("p99", r.P99),
		zap.Int64("max", r.Max),
	)
	return r, nil
}
