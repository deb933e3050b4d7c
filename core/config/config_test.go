package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"example.com/steptime/base/timebase"
	"example.com/steptime/core/config"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    config.Config
		wantErr bool
	}{
		{
			name:  "Empty",
			input: "",
			want:  config.Default(),
		},
		{
			name: "Full",
			input: `
frequency_hz = 10
mode = "combined"
accumulator = "exact"
frame_interval_us = 500
max_frame_delta_us = 250000
max_frames = 100
metrics_address = "127.0.0.1:8080"
`,
			want: config.Config{
				Frequency:       10,
				Mode:            config.ModeCombined,
				Accumulator:     config.AccumulatorExact,
				FrameIntervalUS: 500,
				MaxFrameDeltaUS: 250_000,
				MaxFrames:       100,
				MetricsAddr:     "127.0.0.1:8080",
			},
		},
		{
			name:  "Partial",
			input: "frequency_hz = 120\n",
			want: config.Config{
				Frequency:       120,
				Mode:            config.ModeSplit,
				Accumulator:     config.AccumulatorTruncating,
				FrameIntervalUS: config.DefaultFrameInterval,
			},
		},
		{
			name:    "UnknownKey",
			input:   "frequency = 60\n",
			wantErr: true,
		},
		{
			name:    "ZeroFrequency",
			input:   "frequency_hz = 0\n",
			wantErr: true,
		},
		{
			name:    "FrequencyTooHigh",
			input:   "frequency_hz = 2000000\n",
			wantErr: true,
		},
		{
			name:    "BadMode",
			input:   "mode = \"async\"\n",
			wantErr: true,
		},
		{
			name:    "BadAccumulator",
			input:   "accumulator = \"float\"\n",
			wantErr: true,
		},
		{
			name:    "Malformed",
			input:   "frequency_hz = \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidConfig) {
					t.Errorf("Decode() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeZeroFrequencyIsInvalidFrequency(t *testing.T) {
	_, err := config.Decode(strings.NewReader("frequency_hz = 0\n"))
	if !errors.Is(err, timebase.ErrInvalidFrequency) {
		t.Errorf("Decode() error = %v, want ErrInvalidFrequency", err)
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "steptime.toml")
	err := os.WriteFile(p, []byte("frequency_hz = 30\nmode = \"combined\"\n"), 0o600)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Frequency != 30 || cfg.Mode != config.ModeCombined {
		t.Errorf("Load() = %+v, want frequency 30 and mode combined", cfg)
	}

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Errorf("Load() of missing file succeeded")
	}
}
