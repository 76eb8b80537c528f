package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/cardiograph/internal/config"
	"github.com/vk/cardiograph/internal/csvio"
	"github.com/vk/cardiograph/internal/ctxlog"
	"github.com/vk/cardiograph/internal/fsutil"
	"github.com/vk/cardiograph/internal/pipeline"
	"github.com/vk/cardiograph/internal/render"
	"github.com/vk/cardiograph/internal/server"
	"github.com/vk/cardiograph/internal/sink"
)

// Run executes the application: server mode when a serve port is set,
// otherwise one analysis run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ServePort > 0 {
		return a.serve()
	}
	return a.analyze(ctx)
}

func (a *App) serve() error {
	srv, err := server.New(a.logger, server.Config{
		UploadDir:  a.config.UploadDir,
		ResultsDir: a.config.ResultsDir,
		MaxGridDim: a.config.MaxGridDim,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(a.config.ServePort)
}

// analyze performs a single session run end to end.
func (a *App) analyze(ctx context.Context) error {
	in, sinkCfg, err := a.resolveInputs()
	if err != nil {
		return err
	}

	rep := pipeline.Run(ctx, *in)

	body, err := render.JSON(rep)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	switch a.config.Format {
	case "json":
		if _, err := a.outW.Write(append(body, '\n')); err != nil {
			return err
		}
	default:
		if err := render.Text(a.outW, rep); err != nil {
			return err
		}
	}

	if a.config.OutPath != "" {
		if err := os.WriteFile(a.config.OutPath, body, 0o644); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		a.logger.Info("Report persisted.", "path", a.config.OutPath)
	}

	if sinkCfg != nil {
		timeout, err := time.ParseDuration(sinkCfg.Timeout)
		if err != nil {
			timeout = 0
		}
		if err := sink.New(sinkCfg.URL, timeout).Deliver(ctx, body); err != nil {
			return fmt.Errorf("report delivery failed: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveInputs turns the configuration into pipeline inputs, reading the
// session file when one was given. A missing clinical file is logged and
// skipped, matching the tolerance of the historical analysis scripts; a
// declared but unreadable snapshot degrades the simulation section instead
// of failing the run.
func (a *App) resolveInputs() (*pipeline.Inputs, *config.Sink, error) {
	echoPath := a.config.EchoPath
	dopplerPath := a.config.DopplerPath
	snapshotPath := a.config.SnapshotPath
	maxGridDim := a.config.MaxGridDim
	var sinkCfg *config.Sink

	if a.config.DataDir != "" {
		var err error
		echoPath, dopplerPath, snapshotPath, err = discoverInputs(a.config.DataDir)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("Inputs discovered.", "dir", a.config.DataDir,
			"echo", echoPath, "doppler", dopplerPath, "snapshot", snapshotPath)
	}

	if a.config.SessionPath != "" {
		session, err := config.Load(a.config.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("Session loaded.", "session", session.Name)
		echoPath = session.EchoCSV
		dopplerPath = session.DopplerCSV
		snapshotPath = session.Snapshot
		maxGridDim = session.MaxGridDim()
		sinkCfg = session.Sink
	}

	in := &pipeline.Inputs{MaxGridDim: maxGridDim}

	if echoPath != "" {
		records, err := csvio.ReadFile(echoPath)
		if err != nil {
			a.logger.Warn("Echo data not loaded.", "path", echoPath, "error", err)
		} else {
			in.EchoRecords = records
			a.logger.Info("Loaded echocardiogram data.", "count", len(records))
		}
	}
	if dopplerPath != "" {
		records, err := csvio.ReadFile(dopplerPath)
		if err != nil {
			a.logger.Warn("Doppler data not loaded.", "path", dopplerPath, "error", err)
		} else {
			in.DopplerRecords = records
			a.logger.Info("Loaded Doppler study data.", "count", len(records))
		}
	}
	if snapshotPath != "" {
		in.HasSnapshot = true
		text, err := os.ReadFile(snapshotPath)
		if err != nil {
			a.logger.Warn("Snapshot not readable.", "path", snapshotPath, "error", err)
			in.SnapshotErr = err
		} else {
			in.SnapshotText = string(text)
		}
	}

	return in, sinkCfg, nil
}

// discoverInputs walks a data directory and buckets files by extension,
// following the layout convention of the historical exports: CSV files are
// clinical data, with the Doppler study carrying "doppler" in its name, and
// the first .dat file is the snapshot.
func discoverInputs(dir string) (echo, doppler, snap string, err error) {
	csvs, err := fsutil.FindFilesByExtension(dir, ".csv")
	if err != nil {
		return "", "", "", fmt.Errorf("input discovery failed: %w", err)
	}
	for _, path := range csvs {
		if strings.Contains(strings.ToLower(filepath.Base(path)), "doppler") {
			if doppler == "" {
				doppler = path
			}
		} else if echo == "" {
			echo = path
		}
	}

	dats, err := fsutil.FindFilesByExtension(dir, ".dat")
	if err != nil {
		return "", "", "", fmt.Errorf("input discovery failed: %w", err)
	}
	if len(dats) > 0 {
		snap = dats[0]
	}
	return echo, doppler, snap, nil
}
