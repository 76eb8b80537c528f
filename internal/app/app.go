// Package app wires the pipeline together: it owns the configured logger,
// resolves inputs from the session file or direct flags, runs the analysis
// and hands the report to the renderer, the results file, and the sink.
package app

import (
	"io"
	"log/slog"
)

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Report output goes
// to outW; logs go to logW so that JSON report output stays pipeable.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, config: cfg}
}

// Logger returns the app's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
