// Package logger builds the zap logger shared by the CLI, loader and server.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agenthands/neoscope/internal/config"
)

// Standard field names.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldFile       = "file"
)

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New builds a sugared logger writing to stderr. Format "json" selects the
// production encoder; anything else gets the human-readable console encoder.
func New(cfg config.LogConfig) (*zap.SugaredLogger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Component returns a child logger tagged with a component name.
func Component(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l.With(FieldComponent, name)
}
