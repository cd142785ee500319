package quad

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/quad/backend"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by renderers created afterwards
// without an explicit WithLogger option. By default, quad produces no log
// output. Pass nil to restore the silent logger.
//
// Log levels used by quad:
//   - [slog.LevelDebug]: per-frame diagnostics (material counts, load commands)
//   - [slog.LevelInfo]: lifecycle events (backend selected, fonts loaded)
//   - [slog.LevelWarn]: recoverable data problems (missing texture, empty atlas)
//   - [slog.LevelError]: failed screenshot writes
//
// Example:
//
//	quad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// propagateLogger passes the logger to a backend that accepts one.
func propagateLogger(be backend.Backend, l *slog.Logger) {
	if ls, ok := be.(backend.LoggerSetter); ok {
		ls.SetLogger(l)
	}
}
