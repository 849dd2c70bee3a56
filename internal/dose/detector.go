package dose

import (
	"sort"
	"strings"

	"pharmaguard/internal/domain"
)

// Detector emits dose adjustments for medications against a patient's renal
// status. It holds no mutable state and is safe for concurrent use.
// Grounded on DosingEngine.
type Detector struct{}

func NewDetector() *Detector { return &Detector{} }

// CalculatePatientGFR prefers an explicit GFR; otherwise it derives one via
// Cockcroft-Gault when age, weight, creatinine, and sex are all present.
// Returns nil when no GFR can be determined. Grounded on
// DosingEngine.calculate_patient_gfr.
func (d *Detector) CalculatePatientGFR(patient domain.PatientContext) *float64 {
	if patient.GFR != nil {
		return patient.GFR
	}
	if patient.Age == nil || patient.WeightKg == nil || patient.SerumCreatinine == nil || patient.Sex == "" {
		return nil
	}
	gfr := CockcroftGault(*patient.Age, *patient.WeightKg, *patient.SerumCreatinine, patient.Sex == domain.SexFemale)
	return &gfr
}

// ClassifyRenalStatus prefers an explicit RenalImpairment on the patient
// other than "normal"; otherwise it derives a stage from the computed GFR;
// otherwise it assumes normal. An explicit "normal" does not override a GFR
// that classifies lower. Grounded on DosingEngine.classify_renal_status.
func (d *Detector) ClassifyRenalStatus(patient domain.PatientContext) domain.RenalStage {
	if patient.RenalImpairment != "" && patient.RenalImpairment != domain.RenalStageNormal {
		return patient.RenalImpairment
	}
	if gfr := d.CalculatePatientGFR(patient); gfr != nil {
		return ClassifyRenalFunction(*gfr)
	}
	return domain.RenalStageNormal
}

// findDrugKey matches a medication to a renalRules key by substring search
// over commercial name then generic name, falling back to the special nsaid
// key. Grounded on DosingEngine._find_drug_key.
func findDrugKey(med domain.Medication) (string, bool) {
	commercialLower := strings.ToLower(med.CommercialName)
	genericLower := strings.ToLower(med.GenericName)

	for key := range renalRules {
		if strings.Contains(commercialLower, key) || strings.Contains(genericLower, key) {
			return key, true
		}
	}
	for _, nsaid := range nsaidSubstrings {
		if strings.Contains(commercialLower, nsaid) || strings.Contains(genericLower, nsaid) {
			return "nsaid", true
		}
	}
	return "", false
}

func isContraindicated(a adjustment) bool {
	dose := strings.ToLower(a.dose)
	notes := strings.ToLower(a.notes)
	return strings.Contains(dose, "contraindicated") || strings.Contains(dose, "avoid") ||
		strings.Contains(notes, "contraindicated") || strings.Contains(notes, "avoid")
}

func monitoringFor(drugKey string) []string {
	if params, ok := monitoringParams[drugKey]; ok {
		return params
	}
	return defaultMonitoringParams
}

// GetRenalAdjustment returns the adjustment for med given renalStage, or
// false if none applies (stage is normal, no drug-key match, or no rule for
// that stage). Grounded on DosingEngine.get_renal_adjustment.
func (d *Detector) GetRenalAdjustment(med domain.Medication, renalStage domain.RenalStage) (domain.DosingAdjustment, bool) {
	if renalStage == domain.RenalStageNormal {
		return domain.DosingAdjustment{}, false
	}

	drugKey, ok := findDrugKey(med)
	if !ok {
		return domain.DosingAdjustment{}, false
	}

	stageRules, ok := renalRules[drugKey]
	if !ok {
		return domain.DosingAdjustment{}, false
	}
	info, ok := stageRules[renalStage]
	if !ok {
		return domain.DosingAdjustment{}, false
	}

	contraindicated := isContraindicated(info)

	return domain.DosingAdjustment{
		MedicationID:         med.ID,
		MedicationName:       med.CommercialName,
		StandardDose:         "See package insert",
		AdjustedDose:         info.dose,
		AdjustmentReason:     info.notes,
		ImpairmentType:       domain.ImpairmentRenal,
		ImpairmentLevel:      string(renalStage),
		MonitoringRequired:   !contraindicated,
		MonitoringParameters: monitoringFor(drugKey),
		Contraindicated:      contraindicated,
		Source:               "Egyptian National Formulary / Renal Drug Handbook",
	}, true
}

// CheckPrescription derives the patient's renal stage once and returns a
// DosingAdjustment for every medication that needs one, contraindicated-
// first. Grounded on DosingEngine.check_prescription.
func (d *Detector) CheckPrescription(meds []domain.Medication, patient domain.PatientContext) []domain.DosingAdjustment {
	stage := d.ClassifyRenalStatus(patient)

	var adjustments []domain.DosingAdjustment
	for _, med := range meds {
		if adj, ok := d.GetRenalAdjustment(med, stage); ok {
			adjustments = append(adjustments, adj)
		}
	}

	sort.SliceStable(adjustments, func(i, j int) bool {
		return adjustments[i].Contraindicated && !adjustments[j].Contraindicated
	})

	return adjustments
}
