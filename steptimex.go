// Driver for quick experiments

package main

import (
	"go.uber.org/zap"

	"example.com/steptime/core/stepper"
	"example.com/steptime/driver/clock"
)

func runX() {
	initLogger(true /* verbose */)

	clk := &clock.FakeClock{}
	for _, hz := range []uint32{3, 10, 60} {
		a, err := stepper.NewAccumulator(clk, hz)
		if err != nil {
			log.Fatal("failed to create accumulator", zap.Error(err))
		}
		b, err := stepper.NewAccumulator(clk, hz)
		if err != nil {
			log.Fatal("failed to create accumulator", zap.Error(err))
		}
		log.Debug("stall of 350ms",
			zap.Uint32("hz", hz),
			zap.Int("combined", stepper.DrainCombined(a, 350_000)),
			zap.Uint64("combinedRemainder", a.Accumulated()),
			zap.Int("split", stepper.DrainSplit(b, 350_000)),
			zap.Uint64("splitRemainder", b.Accumulated()),
		)
	}
}
