// Package csvio reads clinical measurement CSV exports. The expected shape
// is two columns, `parameter,value`, with a header row that is skipped.
// File discovery and source attribution stay with the caller; this package
// only turns bytes into records.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/vk/cardiograph/internal/measurement"
)

// ReadRecords parses measurement records from r. Rows with fewer than two
// fields are skipped, matching the tolerance of the original exports;
// extra columns beyond the second are ignored.
func ReadRecords(r io.Reader) ([]measurement.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}

	var records []measurement.Record
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		if len(row) < 2 {
			continue
		}
		records = append(records, measurement.Record{Name: row[0], RawValue: row[1]})
	}
	return records, nil
}

// ReadFile opens path and reads its measurement records.
func ReadFile(path string) ([]measurement.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}
