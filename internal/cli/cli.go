package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/cardiograph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating the program should exit cleanly (help was printed),
// or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("cardiograph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Cardiograph - clinical cardiac analysis and FitzHugh-Nagumo parameterization.

Usage:
  cardiograph [options] [SESSION_PATH]

Arguments:
  SESSION_PATH
    Path to an .hcl session file describing one analysis run.

Options:
`)
		flagSet.PrintDefaults()
	}

	sessionFlag := flagSet.String("session", "", "Path to the session .hcl file.")
	echoFlag := flagSet.String("echo", "", "Path to the echocardiogram CSV export.")
	dopplerFlag := flagSet.String("doppler", "", "Path to the Doppler study CSV export.")
	snapshotFlag := flagSet.String("snapshot", "", "Path to the simulation snapshot file.")
	dataDirFlag := flagSet.String("data-dir", "", "Discover input files in this directory by extension.")
	outFlag := flagSet.String("out", "", "Write the report JSON to this path.")
	formatFlag := flagSet.String("format", "text", "Report output format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	maxGridFlag := flagSet.Int("max-grid-dim", 0, "Upper bound on declared snapshot dimensions. 0 uses the default.")
	serveFlag := flagSet.Int("serve", 0, "Run the upload HTTP server on this port instead of a one-shot analysis. 0 is disabled.")
	uploadDirFlag := flagSet.String("upload-dir", "", "Server mode: directory for stored uploads.")
	resultsDirFlag := flagSet.String("results-dir", "", "Server mode: directory for stored result documents.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	sessionPath := *sessionFlag
	if sessionPath == "" && flagSet.NArg() > 0 {
		sessionPath = flagSet.Arg(0)
	}

	if sessionPath == "" && *echoFlag == "" && *dopplerFlag == "" && *snapshotFlag == "" &&
		*dataDirFlag == "" && *serveFlag == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	format := strings.ToLower(*formatFlag)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid format: must be 'text' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		SessionPath:  sessionPath,
		EchoPath:     *echoFlag,
		DopplerPath:  *dopplerFlag,
		SnapshotPath: *snapshotFlag,
		DataDir:      *dataDirFlag,
		OutPath:      *outFlag,
		Format:       format,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		MaxGridDim:   *maxGridFlag,
		ServePort:    *serveFlag,
		UploadDir:    *uploadDirFlag,
		ResultsDir:   *resultsDirFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
