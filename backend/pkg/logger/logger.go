// Package logger holds the process-wide zap logger. Components take a named
// child at construction time.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is set by Init. Before that, Get hands out a shared development logger.
var Logger *zap.Logger

var (
	fallbackOnce sync.Once
	fallback     *zap.Logger
)

// Init builds the global logger for env. "production" logs JSON at info
// level; every other value gets colored development output at debug level.
func Init(env string) error {
	built, err := configFor(env).Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

func configFor(env string) zap.Config {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Sync flushes buffered entries of the global logger.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the global logger, or the shared fallback when Init has not run.
func Get() *zap.Logger {
	if Logger != nil {
		return Logger
	}
	fallbackOnce.Do(func() {
		l, err := configFor("development").Build()
		if err != nil {
			l = zap.NewNop()
		}
		fallback = l
	})
	return fallback
}

// Named returns a child of the global logger scoped to a component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}
