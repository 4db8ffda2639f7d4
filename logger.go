package openpanel

import (
	"io"

	"github.com/joshuawatkins04/openpanel-go/internal/logger"
)

// Logger receives key/value diagnostics from the SDK.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// NewJSONLogger returns a Logger that writes one JSON object per line to w.
// Debug entries are written only when debug is true.
func NewJSONLogger(w io.Writer, debug bool) Logger {
	level := logger.INFO
	if debug {
		level = logger.DEBUG
	}
	return logger.New(w, level)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
