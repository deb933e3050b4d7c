// Fixed-step simulation clock

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmcloughlin/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/steptime/base/timebase"
	"example.com/steptime/base/timemath"
	"example.com/steptime/base/zaplog"

	"example.com/steptime/benchmark"

	"example.com/steptime/core/config"
	"example.com/steptime/core/loop"
	"example.com/steptime/core/stepper"
	coretimebase "example.com/steptime/core/timebase"

	"example.com/steptime/driver/clock"
)

const (
	defaultBenchmarkSamples  = 1_000
	defaultBenchmarkInterval = time.Millisecond
)

var (
	log *zap.Logger
)

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func runMonitor(log *zap.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func loadConfig(configFile string) config.Config {
	if configFile == "" {
		return config.Default()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	return cfg
}

func newStepper(cfg config.Config, clk timebase.MonotonicClock) stepper.Stepper {
	var (
		s   stepper.Stepper
		err error
	)
	switch cfg.Accumulator {
	case config.AccumulatorExact:
		s, err = stepper.NewExactAccumulator(clk, cfg.Frequency)
	default:
		s, err = stepper.NewAccumulator(clk, cfg.Frequency)
	}
	if err != nil {
		log.Fatal("failed to create accumulator", zap.Error(err))
	}
	return s
}

func loopMode(cfg config.Config) loop.Mode {
	if cfg.Mode == config.ModeCombined {
		return loop.ModeCombined
	}
	return loop.ModeSplit
}

func runLoop(configFile string, profiling bool) {
	if profiling {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	cfg := loadConfig(configFile)

	clk := &clock.SystemClock{Log: log}
	coretimebase.RegisterClock(clk)

	if cfg.MetricsAddr != "" {
		go runMonitor(log, cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &loop.Runner{
		Log:           log,
		Clock:         clk,
		Stepper:       newStepper(cfg, clk),
		Mode:          loopMode(cfg),
		FrameInterval: timemath.FromTicks(cfg.FrameIntervalUS),
		MaxFrameDelta: cfg.MaxFrameDeltaUS,
		MaxFrames:     cfg.MaxFrames,
		Registerer:    prometheus.DefaultRegisterer,
	}

	start := coretimebase.Ticks()
	log.Info("clock registered",
		zap.Uint64("ticks", start),
		zap.Uint64("resolution", coretimebase.Resolution()),
	)
	hz := uint64(cfg.Frequency)
	stats, err := r.Run(ctx, func(tick uint64, dt float64) {
		if (tick+1)%hz != 0 {
			return
		}
		simulated := float64(tick+1) * dt
		elapsed := timebase.TicksToSeconds(coretimebase.Ticks() - start)
		log.Info("simulated second",
			zap.Uint64("tick", tick+1),
			zap.Float64("simulated", simulated),
			zap.Float64("elapsed", elapsed),
			zap.Float64("lag", elapsed-simulated),
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("loop failed", zap.Error(err))
	}
	log.Info("loop statistics",
		zap.Uint64("frames", stats.Frames),
		zap.Uint64("ticks", stats.Ticks),
		zap.Uint64("maxCatchUp", stats.MaxCatchUp),
		zap.Uint64("clamped", stats.Clamped),
	)
}

func runDiagnostics(sleepTarget time.Duration) {
	clk := &clock.SystemClock{Log: log}
	_, err := benchmark.RunClockDiagnostics(log, clk, sleepTarget)
	if err != nil {
		log.Fatal("clock diagnostics failed", zap.Error(err))
	}
}

// quietClockLogger keeps per-sleep clock logs out of benchmark output while
// still reporting fatal clock failures.
func quietClockLogger(log *zap.Logger) *zap.Logger {
	return log.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
}

func runBenchmark(samples int, interval time.Duration) {
	clk := &clock.SystemClock{Log: quietClockLogger(log)}
	_, err := benchmark.RunJitterBenchmark(log, clk, samples, interval, os.Stdout)
	if err != nil {
		log.Fatal("benchmark failed", zap.Error(err))
	}
}

func exitWithUsage() {
	fmt.Println("<usage>")
	os.Exit(1)
}

func main() {
	var (
		verbose     bool
		configFile  string
		profiling   bool
		sleepTarget time.Duration
		samples     int
		interval    time.Duration
	)

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	diagFlags := flag.NewFlagSet("diag", flag.ExitOnError)
	benchmarkFlags := flag.NewFlagSet("benchmark", flag.ExitOnError)

	runFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	runFlags.StringVar(&configFile, "config", "", "Config file")
	runFlags.BoolVar(&profiling, "profile", false, "Enable CPU profiling")

	diagFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	diagFlags.DurationVar(&sleepTarget, "sleep", benchmark.DefaultSleepTarget, "Sleep target")

	benchmarkFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchmarkFlags.IntVar(&samples, "samples", defaultBenchmarkSamples, "Number of samples")
	benchmarkFlags.DurationVar(&interval, "interval", defaultBenchmarkInterval, "Sleep interval")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case runFlags.Name():
		err := runFlags.Parse(os.Args[2:])
		if err != nil || runFlags.NArg() != 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runLoop(configFile, profiling)
	case diagFlags.Name():
		err := diagFlags.Parse(os.Args[2:])
		if err != nil || diagFlags.NArg() != 0 {
			exitWithUsage()
		}
		if sleepTarget <= 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runDiagnostics(sleepTarget)
	case benchmarkFlags.Name():
		err := benchmarkFlags.Parse(os.Args[2:])
		if err != nil || benchmarkFlags.NArg() != 0 {
			exitWithUsage()
		}
		if samples <= 0 || interval < 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runBenchmark(samples, interval)
	case "x":
		runX()
	default:
		exitWithUsage()
	}
}
