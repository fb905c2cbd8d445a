package strata

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. Accessed atomically so SetLogger may
// race with a frame on another goroutine.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by strata and its host packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: buffer (re)allocation, program compilation, lifecycle
//   - Warn: recoverable misuse (unknown layer, double begin, invalid blend mode)
//   - Error: resource failures that cause a composite pass to be skipped
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
