package core

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger *zap.Logger = mustNopLogger()
)

func mustNopLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the package-level zap logger used for domain-event
// logging. Hosts embedding this package should call it once at startup.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

func loggerRef() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
