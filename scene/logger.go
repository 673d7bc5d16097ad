package scene

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerHolder struct {
	l logrus.FieldLogger
}

// newNopLogger discards everything and only lets panics through.
func newNopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

var loggerPtr atomic.Pointer[loggerHolder]

func init() {
	loggerPtr.Store(&loggerHolder{l: newNopLogger()})
}

// SetLogger configures the logger used by the scene package. By default the
// package is silent. Pass nil to restore that.
//
// Levels used:
//   - Debug: rejected calls (stale node ids, refused reparenting)
//   - Info: lifecycle events (behaviours started)
//   - Warn: import data skipped, lights left unshaded
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(&loggerHolder{l: l})
}

// Logger returns the current package logger.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().l
}
