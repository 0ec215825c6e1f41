package ggstage

import (
	"log/slog"

	"github.com/gogpu/ggstage/internal/logger"
)

// SetLogger configures the logger for ggstage and all its sub-packages.
// By default, ggstage produces no log output. Pass nil to restore the
// silent default.
//
// SetLogger is safe for concurrent use.
//
// Log levels used by ggstage:
//   - [slog.LevelDebug]: skipped reconciliations, malformed scene entities
//   - [slog.LevelInfo]: surface setup, stage startup
//   - [slog.LevelWarn]: non-fatal issues (unparsable colors or filters)
//
// Example:
//
//	ggstage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger used by ggstage.
func Logger() *slog.Logger {
	return logger.Get()
}
