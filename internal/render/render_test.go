package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cardiograph/internal/fieldstats"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/render"
	"github.com/vk/cardiograph/internal/report"
	"github.com/vk/cardiograph/internal/snapshot"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	store := measurement.NewStore()
	store.Load(measurement.SourceEcho, []measurement.Record{
		{Name: "ejection_fraction", RawValue: "45"},
		{Name: "height", RawValue: "1.75"},
		{Name: "weight", RawValue: "70"},
	})

	snap, err := snapshot.Parse("2 2 1.0\n0.1 0.5 1.0 0.0\n0.1 0.0\n1 2\n3 4\n5 6\n7 8\n")
	require.NoError(t, err)
	statsU, err := fieldstats.Compute(snap.FieldU)
	require.NoError(t, err)

	return report.Assemble(report.AssembleInput{
		Measurements: store,
		Snapshot:     snap,
		StatsU:       &statsU,
	})
}

func TestTextLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, sampleReport(t)))
	out := buf.String()

	for _, want := range []string{
		"1. PATIENT INFORMATION",
		"2. CARDIAC FUNCTION ANALYSIS",
		"4. DERIVED MODEL PARAMETERS",
		"5. SIMULATION RESULTS ANALYSIS",
		"6. CLINICAL CORRELATION & FINDINGS",
		"Reduced systolic function",
		"Grid Size: 2 × 2",
		"1. Reduced ejection fraction indicates systolic dysfunction",
		"BMI: 22.9",
	} {
		require.Contains(t, out, want)
	}
}

func TestTextRendersSimulationFailure(t *testing.T) {
	r := report.Assemble(report.AssembleInput{
		Measurements: measurement.NewStore(),
		SnapshotErr:  &snapshot.FormatError{Line: 3, Reason: "expected 2 tokens, got 3"},
	})

	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, r))
	require.Contains(t, buf.String(), "Simulation data unavailable")
	require.Contains(t, buf.String(), "line 3")
	require.Contains(t, buf.String(), "No significant pathological findings")
}

func TestJSONEncodesMissingAsNull(t *testing.T) {
	r := report.Assemble(report.AssembleInput{Measurements: measurement.NewStore()})
	data, err := render.JSON(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	patient, ok := decoded["patient_info"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, patient, "age")
	require.Nil(t, patient["age"])

	// Absent simulation section is omitted, not null-filled.
	require.NotContains(t, decoded, "simulation")
	require.False(t, strings.Contains(string(data), "u_statistics"))
}

func TestJSONFindingsAreOrderedPairs(t *testing.T) {
	store := measurement.NewStore()
	store.Load(measurement.SourceDoppler, []measurement.Record{
		{Name: "e_e_prime_ratio", RawValue: "18"},
		{Name: "tr_pressure_gradient", RawValue: "22"},
	})
	data, err := render.JSON(report.Assemble(report.AssembleInput{Measurements: store}))
	require.NoError(t, err)

	var decoded struct {
		Findings []struct {
			ID       string `json:"id"`
			Sentence string `json:"sentence"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Findings, 2)
	require.Equal(t, "grade2_diastolic", decoded.Findings[0].ID)
	require.Equal(t, "pulm_htn", decoded.Findings[1].ID)
}
