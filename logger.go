package outline

import (
	"log/slog"
	"sync/atomic"
)

// silent is the default logger. Its handler reports every level disabled,
// so pass timings and frame attributes are never formatted.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger sets the logger used by the pipeline and by the registered
// accelerator. Nothing is logged until SetLogger is called; nil silences
// logging again. SetLogger may be called while frames render.
//
// Events, all prefixed "outline:":
//   - Debug "pipeline created": width, height, samples, mode, passes
//   - Debug "frame rendered": backend, passes, elapsed
//   - Debug "frame cache hit": key
//   - Debug "GPU frame": width, height, passes, elapsed
//   - Info "GPU accelerator initialized", "switched to shared GPU device"
//   - Warn "accelerator failed, using CPU", "GPU init failed, using CPU passes"
//
// Example:
//
//	outline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)

	if a := RegisteredAccelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the pipeline logger. The gpu package logs its
// registration failures through it.
func Logger() *slog.Logger {
	return current.Load()
}

// loggerSetter is implemented by accelerators that log on their own.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to a when it logs on its own.
func propagateLogger(a Accelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
