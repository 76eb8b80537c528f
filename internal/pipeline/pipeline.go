// Package pipeline runs one full analysis: load measurements, parse the
// simulation snapshot, compute field statistics, derive model parameters,
// and assemble the report. Both the CLI and the upload server drive this
// one implementation, so the analysis logic exists exactly once.
package pipeline

import (
	"context"

	"github.com/vk/cardiograph/internal/ctxlog"
	"github.com/vk/cardiograph/internal/derive"
	"github.com/vk/cardiograph/internal/fieldstats"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/report"
	"github.com/vk/cardiograph/internal/snapshot"
)

// Inputs is the raw material for one run. Nil record slices mean the
// study was not provided; SnapshotText is only read when HasSnapshot is
// set, so an empty snapshot file is still distinguishable from no file.
type Inputs struct {
	EchoRecords    []measurement.Record
	DopplerRecords []measurement.Record

	HasSnapshot  bool
	SnapshotText string
	// SnapshotErr carries an upstream read failure; it lands in the
	// report's simulation failure slot just like a parse failure.
	SnapshotErr error

	MaxGridDim int
}

// Run executes the pipeline. It always produces a report: failures in the
// simulation section degrade that section rather than aborting the run.
func Run(ctx context.Context, in Inputs) *report.Report {
	logger := ctxlog.FromContext(ctx)

	store := measurement.NewStore()
	if in.EchoRecords != nil {
		store.Load(measurement.SourceEcho, in.EchoRecords)
	}
	if in.DopplerRecords != nil {
		store.Load(measurement.SourceDoppler, in.DopplerRecords)
	}
	logger.Debug("Measurements loaded.", "count", store.Len())

	var (
		snap        *snapshot.Snapshot
		snapshotErr = in.SnapshotErr
		statsU      *fieldstats.Result
		statsV      *fieldstats.Result
	)
	if in.HasSnapshot && snapshotErr == nil {
		parser := &snapshot.Parser{MaxDim: in.MaxGridDim}
		var err error
		snap, err = parser.Parse(in.SnapshotText)
		if err != nil {
			logger.Warn("Snapshot rejected.", "error", err)
			snapshotErr = err
		}
	}
	if snap != nil {
		if u, err := fieldstats.Compute(snap.FieldU); err == nil {
			statsU = &u
		} else {
			logger.Warn("u-field statistics unavailable.", "error", err)
		}
		if v, err := fieldstats.Compute(snap.FieldV); err == nil {
			statsV = &v
		} else {
			logger.Warn("v-field statistics unavailable.", "error", err)
		}
	}

	params := derive.Parameters(store)
	logger.Debug("Model parameters derived.", "a", params.A, "du", params.Du)

	rep := report.Assemble(report.AssembleInput{
		Measurements: store,
		Snapshot:     snap,
		SnapshotErr:  snapshotErr,
		StatsU:       statsU,
		StatsV:       statsV,
		Parameters:   params,
	})
	logger.Info("Report assembled.", "report_id", rep.ID, "findings", len(rep.Findings), "simulation", rep.Simulation != nil)
	return rep
}
