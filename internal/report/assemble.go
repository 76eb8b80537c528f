package report

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vk/cardiograph/internal/derive"
	"github.com/vk/cardiograph/internal/fieldstats"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/snapshot"
)

// ErrZeroDenominator is returned by ratio helpers when the denominator is
// zero or negative, instead of silently producing Inf.
var ErrZeroDenominator = errors.New("report: ratio denominator is not positive")

// BMI computes weight / height². Height is in meters per the input
// convention of the clinical exports.
func BMI(weight, height float64) (float64, error) {
	if height <= 0 {
		return 0, ErrZeroDenominator
	}
	return weight / (height * height), nil
}

// AssembleInput bundles the pipeline outputs the assembler aggregates.
// Snapshot, StatsU and StatsV are nil when the simulation side of the run
// was absent or failed; SnapshotErr carries the failure when it did.
type AssembleInput struct {
	Measurements *measurement.Store
	Snapshot     *snapshot.Snapshot
	SnapshotErr  error
	StatsU       *fieldstats.Result
	StatsV       *fieldstats.Result
	Parameters   derive.ParameterSet
}

// Assemble builds the final report. It reads its inputs without mutating
// them; the returned Report is frozen from the caller's point of view.
func Assemble(in AssembleInput) *Report {
	store := in.Measurements
	if store == nil {
		store = measurement.NewStore()
	}

	r := &Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Patient:   patientInfo(store),
		Dimensions: Dimensions{
			LVDiastolicDiameter:  store.Get("lv_diastolic_diameter"),
			LVSystolicDiameter:   store.Get("lv_systolic_diameter"),
			EjectionFraction:     store.Get(derive.NameEjectionFraction),
			FractionalShortening: store.Get("fractional_shortening"),
			LVMassIndex:          store.Get("lv_mass_index"),
		},
		WallThickness: WallThickness{
			IVSThickness:          store.Get("ivs_thickness"),
			LVPosteriorWall:       store.Get("lv_posterior_wall_thickness"),
			RelativeWallThickness: store.Get(derive.NameRelativeWallThickness),
		},
		Diastolic: DiastolicFunction{
			MitralEARatio:       store.Get("mitral_e_a_ratio"),
			EEPrimeRatio:        store.Get(derive.NameEEPrimeRatio),
			TissueDopplerEPrime: store.Get("tissue_doppler_e_prime"),
		},
		Pressures: Pressures{
			TRPressureGradient: store.Get("tr_pressure_gradient"),
			RASP:               store.Get("rasp"),
		},
		Parameters:     in.Parameters,
		Interpretation: interpret(store),
		Findings:       evaluateFindings(store),
	}

	if in.Snapshot != nil {
		r.Simulation = simulationSection(in.Snapshot, in.StatsU, in.StatsV)
	} else if in.SnapshotErr != nil {
		r.SimulationFailure = in.SnapshotErr.Error()
	}

	return r
}

func patientInfo(store *measurement.Store) PatientInfo {
	info := PatientInfo{
		Age:    store.Get("age"),
		Height: store.Get("height"),
		Weight: store.Get("weight"),
		BMI:    measurement.Missing,
	}
	h, hok := info.Height.Float()
	w, wok := info.Weight.Float()
	if hok && wok {
		if bmi, err := BMI(w, h); err == nil {
			info.BMI = measurement.Num(bmi)
		}
	}
	return info
}

func interpret(store *measurement.Store) Interpretation {
	var out Interpretation

	if ef, ok := store.Get(derive.NameEjectionFraction).Float(); ok {
		switch {
		case ef > 70:
			out.Systolic = SystolicHyperdynamic
		case ef >= 50:
			out.Systolic = SystolicNormal
		default:
			out.Systolic = SystolicReduced
		}
	}

	if ee, ok := store.Get(derive.NameEEPrimeRatio).Float(); ok {
		switch {
		case ee > 15:
			out.Diastolic = DiastolicGradeII
		case ee > 8:
			out.Diastolic = DiastolicPossible
		default:
			out.Diastolic = DiastolicNormal
		}
	}

	return out
}

func simulationSection(snap *snapshot.Snapshot, statsU, statsV *fieldstats.Result) *SimulationSection {
	sec := &SimulationSection{
		Width:     snap.Width,
		Height:    snap.Height,
		SimTime:   snap.SimTime,
		Coeffs:    snap.Coeffs,
		Diffusion: snap.Diffusion,
	}
	if statsU != nil {
		u := *statsU
		sec.UStats = &u
		switch {
		case u.Range > 2.0:
			sec.URangeBand = BandLarge
		case u.Range > 1.0:
			sec.URangeBand = BandModerate
		default:
			sec.URangeBand = BandSmall
		}
	}
	if statsV != nil {
		v := *statsV
		sec.VStats = &v
	}
	return sec
}
