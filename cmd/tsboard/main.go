package main

import (
	"runtime"

	"tsboard/internal/app"
	"tsboard/internal/config"
	"tsboard/internal/logger"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.JSONLogs)

	log.Info("Main", "application starting", map[string]interface{}{
		"version":    config.AppVersion,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel.String(),
	})

	application := app.NewApplication(cfg, log)
	application.Run()

	log.Info("Main", "application terminated", nil)
}
