//go:build linux

package benchmark

import (
	"github.com/tklauser/go-sysconf"
	"go.uber.org/zap"
)

func kernelTicksPerSecond(log *zap.Logger) int64 {
	n, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		log.Warn("sysconf.Sysconf failed", zap.Error(err))
		return 0
	}
	return n
}
