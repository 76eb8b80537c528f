package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/pipeline"
	"github.com/vk/cardiograph/internal/report"
)

const tinySnapshot = "2 2 1.0\n0.1 0.5 1.0 0.0\n0.1 0.0\n1 2\n3 4\n5 6\n7 8\n"

func TestRunFullInputs(t *testing.T) {
	rep := pipeline.Run(context.Background(), pipeline.Inputs{
		EchoRecords: []measurement.Record{
			{Name: "ejection_fraction", RawValue: "75"},
			{Name: "relative_wall_thickness", RawValue: "0.45"},
		},
		DopplerRecords: []measurement.Record{
			{Name: "e_e_prime_ratio", RawValue: "18"},
		},
		HasSnapshot:  true,
		SnapshotText: tinySnapshot,
	})

	require.Equal(t, 0.15, rep.Parameters.A)
	require.Equal(t, 0.12, rep.Parameters.Du)
	require.Equal(t, 0.3, rep.Parameters.B)

	require.NotNil(t, rep.Simulation)
	require.Equal(t, 2.5, rep.Simulation.UStats.Mean)
	require.Equal(t, 3.0, rep.Simulation.UStats.Range)

	ids := make([]string, 0, len(rep.Findings))
	for _, f := range rep.Findings {
		ids = append(ids, f.ID)
	}
	require.Equal(t, []string{report.FindingHyperdynamicEF, report.FindingGradeIIDiastlic}, ids)
}

func TestRunClinicalOnly(t *testing.T) {
	rep := pipeline.Run(context.Background(), pipeline.Inputs{
		EchoRecords: []measurement.Record{{Name: "ejection_fraction", RawValue: "60"}},
	})
	require.Nil(t, rep.Simulation)
	require.Empty(t, rep.SimulationFailure)
	require.Equal(t, report.SystolicNormal, rep.Interpretation.Systolic)
}

func TestRunDegradesOnBadSnapshot(t *testing.T) {
	rep := pipeline.Run(context.Background(), pipeline.Inputs{
		EchoRecords:  []measurement.Record{{Name: "ejection_fraction", RawValue: "45"}},
		HasSnapshot:  true,
		SnapshotText: "not a snapshot",
	})
	require.Nil(t, rep.Simulation)
	require.NotEmpty(t, rep.SimulationFailure)
	// Clinical analysis still ran.
	require.Equal(t, 0.05, rep.Parameters.A)
	require.Len(t, rep.Findings, 1)
}

func TestRunHonorsGridLimit(t *testing.T) {
	rep := pipeline.Run(context.Background(), pipeline.Inputs{
		HasSnapshot:  true,
		SnapshotText: "50000 50000 1.0\n0.1 0.5 1.0 0.0\n0.1 0.0\n",
		MaxGridDim:   256,
	})
	require.Nil(t, rep.Simulation)
	require.Contains(t, rep.SimulationFailure, "exceeds limit")
}

func TestRunPropagatesSnapshotReadError(t *testing.T) {
	rep := pipeline.Run(context.Background(), pipeline.Inputs{
		HasSnapshot: true,
		SnapshotErr: context.DeadlineExceeded,
	})
	require.Nil(t, rep.Simulation)
	require.Equal(t, context.DeadlineExceeded.Error(), rep.SimulationFailure)
}
