package snapshot

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses snapshot text. The zero value accepts any declared grid
// size; set MaxDim when the text comes from an untrusted source so a
// malformed header cannot demand unbounded field storage.
type Parser struct {
	// MaxDim caps the declared width and height. Zero disables the cap.
	MaxDim int
}

// Parse is a convenience wrapper around an uncapped Parser.
func Parse(text string) (*Snapshot, error) {
	return (&Parser{}).Parse(text)
}

// Parse reads the full snapshot grammar from text. It returns a FormatError
// when fewer lines are present than the header demands, when a row has the
// wrong token count, or when a token fails to parse as its expected type.
func (p *Parser) Parse(text string) (*Snapshot, error) {
	lines := strings.Split(text, "\n")
	// A trailing newline produces one empty trailing element; the grammar
	// counts content lines only.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	if len(lines) < 3 {
		return nil, &FormatError{Line: -1, Reason: fmt.Sprintf("need at least 3 header lines, got %d", len(lines))}
	}

	header := strings.Fields(lines[0])
	if len(header) != 3 {
		return nil, &FormatError{Line: 0, Reason: fmt.Sprintf("header needs 3 tokens (width height time), got %d", len(header))}
	}
	width, err := parsePositiveInt(header[0])
	if err != nil {
		return nil, &FormatError{Line: 0, Reason: fmt.Sprintf("width: %v", err)}
	}
	height, err := parsePositiveInt(header[1])
	if err != nil {
		return nil, &FormatError{Line: 0, Reason: fmt.Sprintf("height: %v", err)}
	}
	simTime, err := strconv.ParseFloat(header[2], 64)
	if err != nil {
		return nil, &FormatError{Line: 0, Reason: fmt.Sprintf("time: invalid float %q", header[2])}
	}

	if p.MaxDim > 0 && (width > p.MaxDim || height > p.MaxDim) {
		return nil, &FormatError{Line: 0, Reason: fmt.Sprintf("declared grid %dx%d exceeds limit %d", width, height, p.MaxDim)}
	}

	coeffTokens, err := parseFloatRow(lines[1], 4)
	if err != nil {
		return nil, &FormatError{Line: 1, Reason: err.Error()}
	}
	diffTokens, err := parseFloatRow(lines[2], 2)
	if err != nil {
		return nil, &FormatError{Line: 2, Reason: err.Error()}
	}

	need := 3 + 2*height
	if len(lines) < need {
		return nil, &FormatError{Line: -1, Reason: fmt.Sprintf("grid %dx%d needs %d lines, got %d", width, height, need, len(lines))}
	}

	fieldU, err := parseField(lines, 3, width, height)
	if err != nil {
		return nil, err
	}
	fieldV, err := parseField(lines, 3+height, width, height)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Width:     width,
		Height:    height,
		SimTime:   simTime,
		Coeffs:    Coefficients{A: coeffTokens[0], B: coeffTokens[1], C: coeffTokens[2], D: coeffTokens[3]},
		Diffusion: Diffusion{Du: diffTokens[0], Dv: diffTokens[1]},
		FieldU:    fieldU,
		FieldV:    fieldV,
	}, nil
}

// parseField reads height field rows starting at the given line offset.
func parseField(lines []string, start, width, height int) ([][]float64, error) {
	field := make([][]float64, height)
	for i := 0; i < height; i++ {
		row, err := parseFloatRow(lines[start+i], width)
		if err != nil {
			return nil, &FormatError{Line: start + i, Reason: err.Error()}
		}
		field[i] = row
	}
	return field, nil
}

// parseFloatRow splits a line into whitespace-delimited tokens and parses
// exactly want floats out of it.
func parseFloatRow(line string, want int) ([]float64, error) {
	tokens := strings.Fields(line)
	if len(tokens) != want {
		return nil, fmt.Errorf("expected %d tokens, got %d", want, len(tokens))
	}
	row := make([]float64, want)
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", tok)
		}
		row[i] = f
	}
	return row, nil
}

func parsePositiveInt(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", tok)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
