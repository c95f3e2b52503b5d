// Package logger provides structured logging using Zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" logs JSON at info level, "test" logs warnings and above, and
// everything else uses the development console encoder. LOG_LEVEL overrides
// the level.
func Init(env string) {
	once.Do(func() {
		var cfg zap.Config
		switch env {
		case "production":
			cfg = zap.NewProductionConfig()
		case "test":
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		default:
			cfg = zap.NewDevelopmentConfig()
		}
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			if l, err := zapcore.ParseLevel(v); err == nil {
				cfg.Level.SetLevel(l)
			}
		}
		level = cfg.Level

		base, err := cfg.Build()
		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// ForBusiness returns the global logger with the tenant attached.
func ForBusiness(businessID string) *zap.SugaredLogger {
	return Get().With("business_id", businessID)
}

// SetLevel changes the minimum level at runtime.
func SetLevel(l zapcore.Level) {
	Get()
	level.SetLevel(l)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
