// Package fieldstats computes descriptive statistics over the 2-D scalar
// fields of a simulation snapshot.
package fieldstats

import (
	"errors"
	"math"
)

// ErrEmptyField is returned when a field has no entries to aggregate.
// Degenerate input is reported explicitly instead of yielding NaN.
var ErrEmptyField = errors.New("fieldstats: field has no entries")

// Result holds the summary statistics of one field. Std is the population
// standard deviation (divisor N) and Range is exactly Max minus Min.
type Result struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// Compute aggregates all entries of field. Ragged rows are accepted here;
// the snapshot parser already guarantees rectangular fields, and statistics
// are shape-independent. Returns ErrEmptyField for fields with no entries.
//
// Mean and variance run as two separate passes. For grids with tens of
// thousands of entries this keeps the variance accumulation centered and
// avoids the cancellation a single sum-of-squares accumulator suffers.
func Compute(field [][]float64) (Result, error) {
	n := 0
	sum := 0.0
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, row := range field {
		for _, v := range row {
			n++
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if n == 0 {
		return Result{}, ErrEmptyField
	}

	mean := sum / float64(n)

	var sq float64
	for _, row := range field {
		for _, v := range row {
			d := v - mean
			sq += d * d
		}
	}

	return Result{
		Mean:  mean,
		Std:   math.Sqrt(sq / float64(n)),
		Min:   min,
		Max:   max,
		Range: max - min,
	}, nil
}
