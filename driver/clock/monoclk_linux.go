//go:build linux

package clock

import (
	"math"
	"time"

	"go.uber.org/zap"

	"golang.org/x/sys/unix"

	"example.com/steptime/base/timebase"
	"example.com/steptime/base/zaplog"
)

type SystemClock struct {
	Log *zap.Logger
}

var _ timebase.Clock = (*SystemClock)(nil)

func (c *SystemClock) log() *zap.Logger {
	if c.Log == nil {
		return zaplog.Logger()
	}
	return c.Log
}

func now(log *zap.Logger) int64 {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	if err != nil {
		log.Fatal("unix.ClockGettime failed", zap.Error(err))
	}
	nsec := ts.Nano()
	if nsec < 0 {
		log.Fatal("unix.ClockGettime returned unexpected value", zap.Int64("nsec", nsec))
	}
	return nsec
}

func sleep(log *zap.Logger, duration time.Duration) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		log.Fatal("unix.TimerfdCreate failed", zap.Error(err))
	}
	defer func() { _ = unix.Close(fd) }()
	deadline := unix.NsecToTimespec(now(log) + duration.Nanoseconds())
	err = unix.TimerfdSettime(fd, unix.TFD_TIMER_ABSTIME, &unix.ItimerSpec{Value: deadline}, nil /* oldValue */)
	if err != nil {
		log.Fatal("unix.TimerfdSettime failed", zap.Error(err))
	}
	if fd < math.MinInt32 || math.MaxInt32 < fd {
		log.Fatal("unix.TimerfdCreate returned unexpected value")
	}
	pollFds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
	}
	for {
		_, err := unix.Poll(pollFds, -1 /* timeout */)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			log.Fatal("unix.Poll failed", zap.Error(err))
		}
		break
	}
}

func (c *SystemClock) Ticks() uint64 {
	return uint64(now(c.log())) / uint64(time.Microsecond)
}

func (c *SystemClock) Resolution() uint64 {
	var ts unix.Timespec
	err := unix.ClockGetres(unix.CLOCK_MONOTONIC, &ts)
	if err != nil {
		c.log().Fatal("unix.ClockGetres failed", zap.Error(err))
	}
	res := ts.Nano() / int64(time.Microsecond)
	if res < 1 {
		return 1
	}
	return uint64(res)
}

func (c *SystemClock) Sleep(duration time.Duration) {
	if duration < 0 {
		panic("invalid duration value")
	}
	if duration == 0 {
		return
	}
	log := c.log()
	t0 := now(log)
	sleep(log, duration)
	logOverrun(log, duration, time.Duration(now(log)-t0))
}
