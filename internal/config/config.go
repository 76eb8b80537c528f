// Package config loads HCL session files. A session declares one analysis
// run: where the clinical CSV exports and the simulation snapshot live,
// safety limits, and an optional delivery sink for the finished report.
//
//	session "patient_olydotun" {
//	  echo_csv    = "${workdir}/patient_olydotun_echo.csv"
//	  doppler_csv = "${workdir}/patient_doppler_study.csv"
//	  snapshot    = "${workdir}/fhn_final_state.dat"
//
//	  limits {
//	    max_grid_dim = 4096
//	  }
//
//	  sink {
//	    url     = "https://reports.example.net/ingest"
//	    timeout = "10s"
//	  }
//	}
package config

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultMaxGridDim caps declared snapshot dimensions when a session does
// not set its own limit.
const DefaultMaxGridDim = 4096

// Session describes one analysis run.
type Session struct {
	Name       string `hcl:"name,label"`
	EchoCSV    string `hcl:"echo_csv,optional"`
	DopplerCSV string `hcl:"doppler_csv,optional"`
	Snapshot   string `hcl:"snapshot,optional"`

	Limits *Limits `hcl:"limits,block"`
	Sink   *Sink   `hcl:"sink,block"`
}

// Limits bounds resource commitment for untrusted inputs.
type Limits struct {
	MaxGridDim int `hcl:"max_grid_dim,optional"`
}

// Sink is an optional HTTP endpoint the rendered report is POSTed to.
type Sink struct {
	URL     string `hcl:"url"`
	Timeout string `hcl:"timeout,optional"`
}

// root is the top-level HCL file schema.
type root struct {
	Session *Session `hcl:"session,block"`
}

// MaxGridDim returns the session's grid cap, falling back to the default.
func (s *Session) MaxGridDim() int {
	if s.Limits != nil && s.Limits.MaxGridDim > 0 {
		return s.Limits.MaxGridDim
	}
	return DefaultMaxGridDim
}

// Load parses the session file at path. Path expressions inside the file
// may reference `workdir`, which evaluates to the file's own directory, so
// sessions stay relocatable alongside their data.
func Load(path string) (*Session, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: %w", diags)
	}

	workdir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"workdir": cty.StringVal(workdir),
		},
	}

	var r root
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &r); diags.HasErrors() {
		return nil, fmt.Errorf("config: %w", diags)
	}
	if r.Session == nil {
		return nil, fmt.Errorf("config: %s declares no session block", path)
	}
	if r.Session.EchoCSV == "" && r.Session.DopplerCSV == "" && r.Session.Snapshot == "" {
		return nil, fmt.Errorf("config: session %q declares no inputs", r.Session.Name)
	}
	return r.Session, nil
}
