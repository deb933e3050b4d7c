package clock

import (
	"time"

	"go.uber.org/zap"
)

const sleepOverrunThreshold = 10 * time.Millisecond

func logOverrun(log *zap.Logger, target, slept time.Duration) {
	if slept-target > sleepOverrunThreshold {
		log.Debug("sleep overran",
			zap.Duration("target", target),
			zap.Duration("slept", slept),
		)
	}
}
