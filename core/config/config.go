package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"example.com/steptime/base/timebase"
)

const (
	ModeCombined = "combined"
	ModeSplit    = "split"

	AccumulatorTruncating = "truncating"
	AccumulatorExact      = "exact"

	DefaultFrequency     = 60
	DefaultFrameInterval = 1_000
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Frequency       uint32 `toml:"frequency_hz,omitempty"`
	Mode            string `toml:"mode,omitempty"`
	Accumulator     string `toml:"accumulator,omitempty"`
	FrameIntervalUS uint64 `toml:"frame_interval_us,omitempty"`
	MaxFrameDeltaUS uint64 `toml:"max_frame_delta_us,omitempty"`
	MaxFrames       uint64 `toml:"max_frames,omitempty"`
	MetricsAddr     string `toml:"metrics_address,omitempty"`
}

func Default() Config {
	return Config{
		Frequency:       DefaultFrequency,
		Mode:            ModeSplit,
		Accumulator:     AccumulatorTruncating,
		FrameIntervalUS: DefaultFrameInterval,
	}
}

// Decode reads a TOML configuration from r. Keys that are absent keep their
// default values; unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(configFile string) (Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, err
	}
	return Decode(bytes.NewReader(raw))
}

func (c Config) Validate() error {
	_, err := timebase.StepDuration(c.Frequency)
	if err != nil {
		return fmt.Errorf("%w: frequency_hz: %w", ErrInvalidConfig, err)
	}
	if c.Mode != ModeCombined && c.Mode != ModeSplit {
		return fmt.Errorf("%w: mode %q, want %q or %q",
			ErrInvalidConfig, c.Mode, ModeCombined, ModeSplit)
	}
	if c.Accumulator != AccumulatorTruncating && c.Accumulator != AccumulatorExact {
		return fmt.Errorf("%w: accumulator %q, want %q or %q",
			ErrInvalidConfig, c.Accumulator, AccumulatorTruncating, AccumulatorExact)
	}
	return nil
}
