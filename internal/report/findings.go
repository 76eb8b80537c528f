package report

import (
	"github.com/vk/cardiograph/internal/derive"
	"github.com/vk/cardiograph/internal/measurement"
)

// Finding is one clinical correlation: a stable identifier plus its fixed
// interpretive sentence. Identifiers are what tests and downstream
// consumers key on; sentences are presentation text.
type Finding struct {
	ID       string `json:"id"`
	Sentence string `json:"sentence"`
}

// Finding identifiers.
const (
	FindingHyperdynamicEF  = "hyperdynamic_ef"
	FindingReducedEF       = "reduced_ef"
	FindingGradeIIDiastlic = "grade2_diastolic"
	FindingPulmonaryHTN    = "pulm_htn"
)

var findingSentences = map[string]string{
	FindingHyperdynamicEF:  "Hyperdynamic ejection fraction suggests increased cardiac contractility",
	FindingReducedEF:       "Reduced ejection fraction indicates systolic dysfunction",
	FindingGradeIIDiastlic: "Elevated E/E' ratio indicates diastolic dysfunction (Grade II)",
	FindingPulmonaryHTN:    "Elevated tricuspid regurgitation pressure suggests pulmonary hypertension",
}

func newFinding(id string) Finding {
	return Finding{ID: id, Sentence: findingSentences[id]}
}

// evaluateFindings re-checks the clinical thresholds against the store.
// The thresholds mirror the derivation rules but are evaluated
// independently: a finding is a statement about the patient, not about the
// model parameterization.
func evaluateFindings(store *measurement.Store) []Finding {
	var findings []Finding

	if ef, ok := store.Get(derive.NameEjectionFraction).Float(); ok {
		if ef > 70 {
			findings = append(findings, newFinding(FindingHyperdynamicEF))
		} else if ef < 50 {
			findings = append(findings, newFinding(FindingReducedEF))
		}
	}
	if ee, ok := store.Get(derive.NameEEPrimeRatio).Float(); ok && ee > 15 {
		findings = append(findings, newFinding(FindingGradeIIDiastlic))
	}
	if tr, ok := store.Get("tr_pressure_gradient").Float(); ok && tr > 15 {
		findings = append(findings, newFinding(FindingPulmonaryHTN))
	}

	return findings
}
