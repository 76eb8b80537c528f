package app

import (
	"errors"

	"github.com/vk/cardiograph/internal/config"
)

// Config holds everything an App instance needs to run, whether as a
// one-shot analysis or as the upload server.
type Config struct {
	// SessionPath points at an HCL session file. When set it supplies
	// the input paths and limits; the direct path fields below are the
	// flag-driven alternative.
	SessionPath string

	EchoPath     string
	DopplerPath  string
	SnapshotPath string

	// DataDir discovers inputs by extension instead of naming them
	// individually: CSV exports are clinical data (the Doppler study is
	// recognized by its file name), .dat files are snapshots.
	DataDir string

	// OutPath persists the report JSON; empty means stdout only.
	OutPath string
	// Format selects the stdout rendering: "text" or "json".
	Format string

	LogFormat string
	LogLevel  string

	MaxGridDim int

	// ServePort switches the app into server mode when positive.
	ServePort  int
	UploadDir  string
	ResultsDir string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SessionPath == "" && cfg.EchoPath == "" && cfg.DopplerPath == "" &&
		cfg.SnapshotPath == "" && cfg.DataDir == "" && cfg.ServePort <= 0 {
		return nil, errors.New("nothing to do: provide a session file, input files, or a serve port")
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.MaxGridDim <= 0 {
		cfg.MaxGridDim = config.DefaultMaxGridDim
	}
	if cfg.ServePort > 0 {
		if cfg.UploadDir == "" {
			cfg.UploadDir = "uploads"
		}
		if cfg.ResultsDir == "" {
			cfg.ResultsDir = "results"
		}
	}
	return &cfg, nil
}
