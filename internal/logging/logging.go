// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// ParseLevel maps a level name to a zap level. Unknown names fall back to info.
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger writing to stderr. format "json" selects the
// production encoder, anything else the human-readable development one.
func New(levelStr, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewSugared is New for callers that only need printf-style logging, such as
// the calculation engine.
func NewSugared(levelStr, format string) (*zap.SugaredLogger, error) {
	l, err := New(levelStr, format)
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewNop returns a logger that discards everything
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// NewTest returns a logger that writes through t.Log
func NewTest(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}
