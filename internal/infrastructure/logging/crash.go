package logging

import (
	"runtime/debug"

	"go.uber.org/zap"
)

// CrashHook logs a panic in flight and re-panics. It must be deferred
// directly so that recover observes the panic:
//
//	defer logging.CrashHook(logger)
//
// It performs no recovery.
func CrashHook(logger *zap.Logger) {
	r := recover()
	if r == nil {
		return
	}
	if logger != nil {
		logger.Error("Application panic",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
		)
		_ = logger.Sync()
	}
	panic(r)
}
