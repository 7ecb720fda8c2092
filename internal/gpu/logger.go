//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"
)

// logger receives the GPU lifecycle and per-frame events. outline.SetLogger
// replaces it through JFAAccelerator.SetLogger.
var logger atomic.Pointer[slog.Logger]

func init() {
	setLogger(nil)
}

func slogger() *slog.Logger { return logger.Load() }

func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}
