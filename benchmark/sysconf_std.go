//go:build !linux

package benchmark

import (
	"go.uber.org/zap"
)

func kernelTicksPerSecond(log *zap.Logger) int64 {
	return 0
}
