package measurement_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cardiograph/internal/measurement"
)

func TestLoadSniffsNumericTokens(t *testing.T) {
	s := measurement.NewStore()
	s.Load(measurement.SourceEcho, []measurement.Record{
		{Name: "ejection_fraction", RawValue: "62.5"},
		{Name: "age", RawValue: "54"},
		{Name: "offset", RawValue: "-0.5"},
	})

	for name, want := range map[string]float64{
		"ejection_fraction": 62.5,
		"age":               54,
		"offset":            -0.5,
	} {
		f, ok := s.Get(name).Float()
		require.True(t, ok, "expected %s to be numeric", name)
		require.Equal(t, want, f)
	}
}

func TestLoadKeepsMalformedTokensAsText(t *testing.T) {
	s := measurement.NewStore()
	s.Load(measurement.SourceEcho, []measurement.Record{
		{Name: "version", RawValue: "1.2.3"},
		{Name: "placeholder", RawValue: "-"},
		{Name: "ejection_fraction", RawValue: "N/A"},
		{Name: "rhythm", RawValue: "sinus"},
		{Name: "dot", RawValue: "."},
	})

	for _, name := range []string{"version", "placeholder", "ejection_fraction", "rhythm", "dot"} {
		v := s.Get(name)
		require.False(t, v.IsMissing())
		_, ok := v.Float()
		require.False(t, ok, "token for %s must not coerce to numeric", name)
	}

	raw, ok := s.Get("version").Raw()
	require.True(t, ok)
	require.Equal(t, "1.2.3", raw)
}

func TestGetAbsentNameIsMissing(t *testing.T) {
	s := measurement.NewStore()
	v := s.Get("tr_pressure_gradient")
	require.True(t, v.IsMissing())
	_, ok := v.Float()
	require.False(t, ok)
}

func TestGetFromDistinguishesSources(t *testing.T) {
	s := measurement.NewStore()
	s.Load(measurement.SourceEcho, []measurement.Record{{Name: "heart_rate", RawValue: "61"}})
	s.Load(measurement.SourceDoppler, []measurement.Record{{Name: "heart_rate", RawValue: "64"}})

	f, ok := s.GetFrom(measurement.SourceDoppler, "heart_rate").Float()
	require.True(t, ok)
	require.Equal(t, 64.0, f)

	// The merged view prefers echo.
	f, ok = s.Get("heart_rate").Float()
	require.True(t, ok)
	require.Equal(t, 61.0, f)
}

func TestValueJSONEncoding(t *testing.T) {
	cases := []struct {
		value measurement.Value
		want  string
	}{
		{measurement.Num(0.45), "0.45"},
		{measurement.Text("sinus"), `"sinus"`},
		{measurement.Missing, "null"},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.value)
		require.NoError(t, err)
		require.Equal(t, tc.want, string(got))
	}
}

func TestValueString(t *testing.T) {
	require.Equal(t, "N/A", measurement.Missing.String())
	require.Equal(t, "62.5", measurement.Num(62.5).String())
	require.Equal(t, "1.2.3", measurement.Text("1.2.3").String())
}
