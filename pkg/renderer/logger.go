package renderer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports itself disabled, so callers
// skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger new raytracers start with. By default
// nothing is logged. Pass nil to restore silence. Safe for concurrent use.
// [Raytracer.SetLogger] overrides it for a single render.
//
// Levels:
//   - [slog.LevelDebug]: worker pool sizing and task counts
//   - [slog.LevelInfo]: render start and finish
//   - [slog.LevelWarn]: rejected configurations
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. The CLI and web server share it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
