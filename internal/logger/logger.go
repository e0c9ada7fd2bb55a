package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the component-scoped structured logger used across the app.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ParseLevel maps a LOG_LEVEL style string onto a zerolog level.
// Unknown or empty values yield fallback.
func ParseLevel(s string, fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return fallback
	}
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) Debug(string, string, map[string]interface{})   {}
func (NoOp) Info(string, string, map[string]interface{})    {}
func (NoOp) Warning(string, string, map[string]interface{}) {}
func (NoOp) Error(string, error, map[string]interface{})    {}
