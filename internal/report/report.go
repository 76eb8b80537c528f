// Package report assembles the outputs of the analysis pipeline into one
// immutable diagnostic report. Assembly is pure aggregation with a
// partial-results policy: each section is independently present or
// explicitly absent, and a failure in the simulation section never blocks
// the clinical sections.
package report

import (
	"time"

	"github.com/vk/cardiograph/internal/derive"
	"github.com/vk/cardiograph/internal/fieldstats"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/snapshot"
)

// PatientInfo carries demographic measurements and the derived BMI.
type PatientInfo struct {
	Age    measurement.Value `json:"age"`
	Height measurement.Value `json:"height"`
	Weight measurement.Value `json:"weight"`
	BMI    measurement.Value `json:"bmi"`
}

// Dimensions carries left-ventricular geometry and systolic function.
type Dimensions struct {
	LVDiastolicDiameter  measurement.Value `json:"lv_diastolic_diameter"`
	LVSystolicDiameter   measurement.Value `json:"lv_systolic_diameter"`
	EjectionFraction     measurement.Value `json:"ejection_fraction"`
	FractionalShortening measurement.Value `json:"fractional_shortening"`
	LVMassIndex          measurement.Value `json:"lv_mass_index"`
}

// WallThickness carries the hypertrophy markers.
type WallThickness struct {
	IVSThickness          measurement.Value `json:"ivs_thickness"`
	LVPosteriorWall       measurement.Value `json:"lv_posterior_wall_thickness"`
	RelativeWallThickness measurement.Value `json:"relative_wall_thickness"`
}

// DiastolicFunction carries the Doppler-derived relaxation markers.
type DiastolicFunction struct {
	MitralEARatio       measurement.Value `json:"mitral_e_a_ratio"`
	EEPrimeRatio        measurement.Value `json:"e_e_prime_ratio"`
	TissueDopplerEPrime measurement.Value `json:"tissue_doppler_e_prime"`
}

// Pressures carries the pulmonary pressure estimates.
type Pressures struct {
	TRPressureGradient measurement.Value `json:"tr_pressure_gradient"`
	RASP               measurement.Value `json:"rasp"`
}

// SimulationSection summarizes a successfully parsed snapshot. UStats or
// VStats may individually be nil when that field's statistics failed.
type SimulationSection struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	SimTime float64 `json:"sim_time"`

	Coeffs    snapshot.Coefficients `json:"coefficients"`
	Diffusion snapshot.Diffusion    `json:"diffusion"`

	UStats *fieldstats.Result `json:"u_statistics,omitempty"`
	VStats *fieldstats.Result `json:"v_statistics,omitempty"`

	// URangeBand labels the spread of the membrane potential field:
	// BandLarge above 2.0, BandModerate above 1.0, BandSmall otherwise.
	URangeBand string `json:"u_range_band,omitempty"`
}

// Interpretation holds presentation labels computed from the clinical
// thresholds. Labels are identifiers for the renderer to expand; an empty
// label means the underlying measurement was missing.
type Interpretation struct {
	Systolic  string `json:"systolic,omitempty"`
	Diastolic string `json:"diastolic,omitempty"`
}

// Interpretive band labels.
const (
	SystolicHyperdynamic = "hyperdynamic"
	SystolicNormal       = "normal"
	SystolicReduced      = "reduced"

	DiastolicNormal   = "normal"
	DiastolicPossible = "possible_dysfunction"
	DiastolicGradeII  = "grade_ii"

	BandLarge    = "large"
	BandModerate = "moderate"
	BandSmall    = "small"
)

// Report is the assembled analysis result. It is created once per run and
// never mutated afterwards; the presentation layer renders or persists it
// as a whole.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Patient       PatientInfo       `json:"patient_info"`
	Dimensions    Dimensions        `json:"dimensions"`
	WallThickness WallThickness     `json:"wall_thickness"`
	Diastolic     DiastolicFunction `json:"diastolic_function"`
	Pressures     Pressures         `json:"pressures"`

	Parameters derive.ParameterSet `json:"model_parameters"`

	// Simulation is nil when no snapshot was supplied or parsing failed;
	// SimulationFailure carries the reason in the latter case.
	Simulation        *SimulationSection `json:"simulation,omitempty"`
	SimulationFailure string             `json:"simulation_failure,omitempty"`

	Interpretation Interpretation `json:"interpretation"`
	Findings       []Finding      `json:"findings"`
}
