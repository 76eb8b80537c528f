// Package snapshot parses the fixed-layout text state file written by the
// FitzHugh-Nagumo simulator. The format is a strict positional grammar:
//
//	line 0:              width height simTime
//	line 1:              a b c d
//	line 2:              du dv
//	next height lines:   rows of field u, width floats each, top row first
//	next height lines:   rows of field v, same shape
//
// Any deviation is rejected with a FormatError rather than repaired.
package snapshot

import "fmt"

// Coefficients are the model coefficients recorded in the snapshot header.
// They describe the run that produced the file and are independent of any
// parameters later derived from clinical data.
type Coefficients struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// Diffusion holds the diffusion coefficients for the two fields.
type Diffusion struct {
	Du float64 `json:"du"`
	Dv float64 `json:"dv"`
}

// Snapshot is the parsed simulator state. FieldU is the membrane potential,
// FieldV the recovery variable; both are Height rows of Width entries.
type Snapshot struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	SimTime float64 `json:"sim_time"`

	Coeffs    Coefficients `json:"coefficients"`
	Diffusion Diffusion    `json:"diffusion"`

	FieldU [][]float64 `json:"-"`
	FieldV [][]float64 `json:"-"`
}

// FormatError reports a violation of the snapshot grammar. Line is the
// zero-based line number the violation was detected on; -1 means the text
// as a whole was too short.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("snapshot: %s", e.Reason)
	}
	return fmt.Sprintf("snapshot: line %d: %s", e.Line, e.Reason)
}
