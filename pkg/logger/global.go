package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the process-wide logger, initializing it from the
// environment on first use (DEBUG=true or FORECAST_LOG_LEVEL).
func GetLogger() *Logger {
	once.Do(func() {
		if globalLogger == nil {
			level := "info"
			if os.Getenv("DEBUG") == "true" {
				level = "debug"
			} else if env := os.Getenv("FORECAST_LOG_LEVEL"); env != "" {
				level = env
			}

			globalLogger = New(Config{
				Level:  level,
				Format: "json",
				Output: "stdout",
			})
		}
	})
	return globalLogger
}

// SetLogger replaces the process-wide logger, typically after config load.
func SetLogger(l *Logger) {
	globalLogger = l
}
