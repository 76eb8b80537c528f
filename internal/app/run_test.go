package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cardiograph/internal/app"
	"github.com/vk/cardiograph/internal/testutil"
)

const (
	echoCSV      = "parameter,value\nage,54\nheight,1.75\nweight,70\nejection_fraction,75\nrelative_wall_thickness,0.45\n"
	dopplerCSV   = "parameter,value\ne_e_prime_ratio,18\ntr_pressure_gradient,22\n"
	tinySnapshot = "2 2 1.0\n0.1 0.5 1.0 0.0\n0.1 0.0\n1 2\n3 4\n5 6\n7 8\n"
)

func TestRunWithDirectFlags(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{
		"echo.csv":    echoCSV,
		"doppler.csv": dopplerCSV,
		"state.dat":   tinySnapshot,
	}, func(dir string) app.Config {
		return app.Config{
			EchoPath:     filepath.Join(dir, "echo.csv"),
			DopplerPath:  filepath.Join(dir, "doppler.csv"),
			SnapshotPath: filepath.Join(dir, "state.dat"),
			LogLevel:     "debug",
		}
	})

	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "CARDIAC ANALYSIS REPORT")
	require.Contains(t, res.Output, "Hyperdynamic systolic function")
	require.Contains(t, res.Output, "du: 0.12")
	require.Contains(t, res.Output, "Grid Size: 2 × 2")
	require.Contains(t, res.LogOutput, "Report assembled.")
	// Report output and logs stay on separate writers.
	require.NotContains(t, res.Output, "level=")
}

func TestRunWithSessionFile(t *testing.T) {
	session := `
session "patient_a" {
  echo_csv = "${workdir}/echo.csv"
  snapshot = "${workdir}/state.dat"

  limits {
    max_grid_dim = 64
  }
}
`
	res := testutil.RunApp(t, map[string]string{
		"session.hcl": session,
		"echo.csv":    echoCSV,
		"state.dat":   tinySnapshot,
	}, func(dir string) app.Config {
		return app.Config{SessionPath: filepath.Join(dir, "session.hcl")}
	})

	require.NoError(t, res.Err)
	require.Contains(t, res.LogOutput, "patient_a")
	require.Contains(t, res.Output, "Membrane Potential (u) Statistics")
}

func TestRunDiscoversDataDir(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{
		"data/patient_olydotun_echo.csv": echoCSV,
		"data/patient_doppler_study.csv": dopplerCSV,
		"data/fhn_final_state.dat":       tinySnapshot,
	}, func(dir string) app.Config {
		return app.Config{DataDir: filepath.Join(dir, "data")}
	})

	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "Hyperdynamic systolic function")
	require.Contains(t, res.Output, "Grade II diastolic dysfunction")
	require.Contains(t, res.Output, "Grid Size: 2 × 2")
	require.Contains(t, res.Output, "3. Elevated tricuspid regurgitation pressure suggests pulmonary hypertension")
}

func TestRunJSONFormatAndOutFile(t *testing.T) {
	var outPath string
	res := testutil.RunApp(t, map[string]string{
		"echo.csv": echoCSV,
	}, func(dir string) app.Config {
		outPath = filepath.Join(dir, "report.json")
		return app.Config{
			EchoPath: filepath.Join(dir, "echo.csv"),
			Format:   "json",
			OutPath:  outPath,
		}
	})
	require.NoError(t, res.Err)

	var fromStdout map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Output), &fromStdout))
	require.Contains(t, fromStdout, "model_parameters")

	persisted, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.JSONEq(t, res.Output, string(persisted))
}

func TestRunSurvivesMissingAndBrokenInputs(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{
		"echo.csv": echoCSV,
	}, func(dir string) app.Config {
		return app.Config{
			EchoPath:     filepath.Join(dir, "echo.csv"),
			DopplerPath:  filepath.Join(dir, "absent.csv"),
			SnapshotPath: filepath.Join(dir, "absent.dat"),
		}
	})

	// Missing Doppler data is tolerated; the unreadable snapshot only
	// degrades the simulation section.
	require.NoError(t, res.Err)
	require.Contains(t, res.LogOutput, "Doppler data not loaded.")
	require.Contains(t, res.Output, "Simulation data unavailable")
	require.Contains(t, res.Output, "Hyperdynamic")
}

func TestRunDeliversToSink(t *testing.T) {
	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	session := `
session "patient_s" {
  echo_csv = "${workdir}/echo.csv"

  sink {
    url = "` + srv.URL + `"
  }
}
`
	res := testutil.RunApp(t, map[string]string{
		"session.hcl": session,
		"echo.csv":    echoCSV,
	}, func(dir string) app.Config {
		return app.Config{SessionPath: filepath.Join(dir, "session.hcl")}
	})

	require.NoError(t, res.Err)
	select {
	case body := <-received:
		require.Contains(t, string(body), "model_parameters")
	default:
		t.Fatal("sink endpoint was never called")
	}
}

func TestNewConfigRejectsEmpty(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{ServePort: 8080})
	require.NoError(t, err)
	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, "results", cfg.ResultsDir)
	require.Equal(t, "text", cfg.Format)
	require.Positive(t, cfg.MaxGridDim)
}
