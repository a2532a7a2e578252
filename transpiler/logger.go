package transpiler

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the transpiler package's logger. It is a no-op logger until
// SetLogger is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l, named "transpiler", as the package logger. A nil l
// restores the no-op logger. Each inlined call is logged at debug level
// with its depth.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	} else {
		l = l.Named("transpiler")
	}
	logger.Store(l)
}
