package blit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so attributes are
// never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nopLogger = slog.New(nopHandler{})

// pkgLogger is read on every dispatch and may be replaced at any time.
var pkgLogger atomic.Pointer[slog.Logger]

func init() { pkgLogger.Store(nopLogger) }

// SetLogger configures the package-wide logger used by contexts that were
// not given their own logger with WithLogger. By default blit produces no
// log output. Pass nil to restore the silent default.
//
// Log levels used by blit:
//   - [slog.LevelDebug]: dispatch decisions, skipped incompatible draws,
//     memory fallback when no display is current
//   - [slog.LevelInfo]: display creation
//   - [slog.LevelWarn]: lock failures during conversion, saves without a
//     handler, resource release errors
//
// Example:
//
//	blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger
	}
	pkgLogger.Store(l)
}

// Logger returns the package-wide logger. Drivers and imageio log through
// it unless a context hands them its own.
func Logger() *slog.Logger { return pkgLogger.Load() }

// propagateLogger hands l to drivers that log.
func propagateLogger(d Driver, l *slog.Logger) {
	if ls, ok := d.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}
