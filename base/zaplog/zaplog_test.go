package zaplog_test

import (
	"testing"

	"go.uber.org/zap"

	"example.com/steptime/base/zaplog"
)

func TestLogger(t *testing.T) {
	if zaplog.Logger() == nil {
		t.Fatalf("Logger() = nil before SetLogger")
	}
	l := zap.NewExample()
	zaplog.SetLogger(l)
	if got := zaplog.Logger(); got != l {
		t.Errorf("Logger() = %p, want %p", got, l)
	}
}
