// Package render turns an assembled report into human or machine readable
// output. Computation lives upstream; this package only formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/cardiograph/internal/fieldstats"
	"github.com/vk/cardiograph/internal/report"
)

// JSON serializes the report with indentation. Missing clinical values
// encode as null and the absent simulation section is omitted entirely.
func JSON(r *report.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Sentences the interpretation labels expand to in text output.
var systolicText = map[string]string{
	report.SystolicHyperdynamic: "Hyperdynamic systolic function (may indicate hyperthyroidism, anemia, or early-stage cardiomyopathy)",
	report.SystolicNormal:       "Normal systolic function",
	report.SystolicReduced:      "Reduced systolic function (suggests heart failure or myocardial infarction)",
}

var diastolicText = map[string]string{
	report.DiastolicGradeII:  "Elevated left ventricular filling pressures (Grade II diastolic dysfunction)",
	report.DiastolicPossible: "Possible diastolic dysfunction",
	report.DiastolicNormal:   "Normal diastolic function",
}

var uRangeText = map[string]string{
	report.BandLarge:    "Large membrane potential variations suggest active electrical activity",
	report.BandModerate: "Moderate membrane potential variations",
	report.BandSmall:    "Small membrane potential variations (may indicate quiescent tissue)",
}

// printer accumulates the first write error so section helpers can stay
// unconditional.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(n int, title string) {
	p.printf("\n%d. %s\n", n, title)
	p.printf("%s\n", strings.Repeat("-", 40))
}

// Text writes the numbered-section report layout to w.
func Text(w io.Writer, r *report.Report) error {
	p := &printer{w: w}

	rule := strings.Repeat("=", 80)
	p.printf("%s\n", rule)
	p.printf("CARDIAC ANALYSIS REPORT\n")
	p.printf("%s\n", rule)

	p.section(1, "PATIENT INFORMATION")
	p.printf("Age: %s years\n", r.Patient.Age)
	p.printf("Height: %s m\n", r.Patient.Height)
	p.printf("Weight: %s kg\n", r.Patient.Weight)
	if bmi, ok := r.Patient.BMI.Float(); ok {
		p.printf("BMI: %.1f kg/m²\n", bmi)
	}

	p.section(2, "CARDIAC FUNCTION ANALYSIS")
	p.printf("Left Ventricular Ejection Fraction: %s%%\n", r.Dimensions.EjectionFraction)
	p.printf("Fractional Shortening: %s%%\n", r.Dimensions.FractionalShortening)
	p.printf("LV Mass Index: %s g/m²\n", r.Dimensions.LVMassIndex)
	if s, ok := systolicText[r.Interpretation.Systolic]; ok {
		p.printf("→ %s\n", s)
	}

	p.section(3, "DIASTOLIC FUNCTION")
	p.printf("Mitral E/A ratio: %s\n", r.Diastolic.MitralEARatio)
	p.printf("E/E' ratio: %s\n", r.Diastolic.EEPrimeRatio)
	p.printf("Tissue Doppler E': %s cm/s\n", r.Diastolic.TissueDopplerEPrime)
	if s, ok := diastolicText[r.Interpretation.Diastolic]; ok {
		p.printf("→ %s\n", s)
	}

	p.section(4, "DERIVED MODEL PARAMETERS")
	p.printf("FitzHugh-Nagumo Parameters:\n")
	p.printf("  a: %g\n", r.Parameters.A)
	p.printf("  b: %g\n", r.Parameters.B)
	p.printf("  c: %g\n", r.Parameters.C)
	p.printf("  d: %g\n", r.Parameters.D)
	p.printf("  du: %g\n", r.Parameters.Du)
	p.printf("  dv: %g\n", r.Parameters.Dv)

	p.section(5, "SIMULATION RESULTS ANALYSIS")
	switch {
	case r.Simulation != nil:
		sim := r.Simulation
		p.printf("Grid Size: %d × %d\n", sim.Width, sim.Height)
		p.printf("Simulation Time: %g seconds\n", sim.SimTime)
		if sim.UStats != nil {
			p.printf("\nMembrane Potential (u) Statistics:\n")
			printStats(p, sim.UStats)
		}
		if sim.VStats != nil {
			p.printf("\nRecovery Variable (v) Statistics:\n")
			printStats(p, sim.VStats)
		}
		if s, ok := uRangeText[sim.URangeBand]; ok {
			p.printf("→ %s\n", s)
		}
	case r.SimulationFailure != "":
		p.printf("Simulation data unavailable: %s\n", r.SimulationFailure)
	default:
		p.printf("No simulation snapshot provided.\n")
	}

	p.section(6, "CLINICAL CORRELATION & FINDINGS")
	if len(r.Findings) == 0 {
		p.printf("No significant pathological findings identified in the clinical data.\n")
	}
	for i, f := range r.Findings {
		p.printf("%d. %s\n", i+1, f.Sentence)
	}

	return p.err
}

func printStats(p *printer, s *fieldstats.Result) {
	p.printf("  Mean: %.4f\n", s.Mean)
	p.printf("  Std Dev: %.4f\n", s.Std)
	p.printf("  Range: %.4f to %.4f\n", s.Min, s.Max)
}
