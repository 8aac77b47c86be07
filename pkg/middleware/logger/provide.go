package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func ProvideLoggerMiddleware() *Middleware { return New(NewLog("http-access.log")) }

// ProvideLogger builds the system logger; STEEZE_LOG_LEVEL=debug shows
// per-endpoint build output.
func ProvideLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if v := os.Getenv("STEEZE_LOG_LEVEL"); v != "" {
		if l, err := zapcore.ParseLevel(v); err == nil {
			level = l
		}
	}
	return NewSystemLog("system.log", level)
}
