// Package derive maps clinical measurements to FitzHugh-Nagumo model
// parameters through a fixed rule table. Derivation is a pure function of
// the measurement store: same measurements, bit-identical parameters.
package derive

import "github.com/vk/cardiograph/internal/measurement"

// Measurement names the rule table reads.
const (
	NameEjectionFraction      = "ejection_fraction"
	NameEEPrimeRatio          = "e_e_prime_ratio"
	NameRelativeWallThickness = "relative_wall_thickness"
)

// ParameterSet is a complete FitzHugh-Nagumo parameterization. Once
// returned by Parameters it must be treated as frozen.
type ParameterSet struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	Du float64 `json:"du"`
	Dv float64 `json:"dv"`
}

// Defaults is the baseline parameterization used when no rule fires.
func Defaults() ParameterSet {
	return ParameterSet{A: 0.1, B: 0.5, C: 1.0, D: 0.0, Du: 0.1, Dv: 0.0}
}

// Parameters derives a parameter set from the store. Rules run in a fixed
// order and later rules compound on earlier mutations: the wall thickness
// rule scales whatever Du the ejection fraction rule left behind. A rule
// whose measurement is missing or non-numeric is skipped.
func Parameters(store *measurement.Store) ParameterSet {
	p := Defaults()

	// Hyperdynamic EF raises excitability and conduction; reduced EF
	// (ischemic or infarcted tissue) lowers both.
	if ef, ok := store.Get(NameEjectionFraction).Float(); ok {
		switch {
		case ef > 70:
			p.A = 0.15
			p.Du = 0.15
		case ef < 50:
			p.A = 0.05
			p.Du = 0.05
		}
	}

	// Elevated E/E' marks diastolic dysfunction: slower recovery, longer
	// time constant.
	if ee, ok := store.Get(NameEEPrimeRatio).Float(); ok && ee > 15 {
		p.B = 0.3
		p.C = 1.5
	}

	// Hypertrophy slightly reduces conduction. Applied last, on the
	// current Du.
	if rwt, ok := store.Get(NameRelativeWallThickness).Float(); ok && rwt > 0.42 {
		p.Du *= 0.8
	}

	return p
}
