// Package config wires the database, logger, and request middleware.
package config

import "go.uber.org/zap"

var Log *zap.Logger

// InitLogger creates the process-wide zap logger for the given environment.
func InitLogger(env string) {
	if env == "production" {
		logger, _ := zap.NewProduction()
		Log = logger
		return
	}
	logger, _ := zap.NewDevelopment()
	Log = logger
}
