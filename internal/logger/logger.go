// Package logger provides the process-wide zap logger.
package logger

import "sync"

// Accepted values for log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton logger. Only the first call's level is honored.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, stdout)
	})
	return globalLogger
}
