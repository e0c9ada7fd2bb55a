package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"tsboard/internal/logger"
)

const (
	AppName    = "tsboard"
	AppID      = "com.tsboard.app"
	AppVersion = "0.1.0"

	DefaultPreviewMax = 2048
	minPreviewMax     = 64
)

// Config holds the settings read from the environment at startup.
type Config struct {
	LogLevel   zerolog.Level
	JSONLogs   bool
	PreviewMax int
}

// FromEnv reads LOG_LEVEL, DEBUG, TSBOARD_JSON_LOGS and TSBOARD_PREVIEW_MAX.
func FromEnv() Config {
	return Load(os.Getenv)
}

// Load builds a Config from an environment lookup function.
func Load(getenv func(string) string) Config {
	fallback := zerolog.InfoLevel
	if getenv("DEBUG") == "1" {
		fallback = zerolog.DebugLevel
	}

	cfg := Config{
		LogLevel:   logger.ParseLevel(getenv("LOG_LEVEL"), fallback),
		JSONLogs:   getenv("TSBOARD_JSON_LOGS") == "true",
		PreviewMax: DefaultPreviewMax,
	}

	if v, err := strconv.Atoi(getenv("TSBOARD_PREVIEW_MAX")); err == nil && v >= minPreviewMax {
		cfg.PreviewMax = v
	}

	return cfg
}
