package linker

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the linker package's logger. It is a no-op logger until
// SetLogger is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l, named "linker", as the package logger. A nil l
// restores the no-op logger. Resolution matches and overwrites are logged at debug level.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	} else {
		l = l.Named("linker")
	}
	logger.Store(l)
}
