package validation

import (
	"fmt"
	"strings"

	"pharmaguard/internal/catalog"
	"pharmaguard/internal/domain"
)

// generateWarnings composes the plain-text warning lines for a validation
// pass: high-alert flags, interaction-severity counts, dosing-adjustment
// counts, and age-band flags. Grounded on
// MedicationValidationService._generate_warnings; the source's emoji
// prefixes are replaced with plain uppercase tags (SPEC_FULL.md §9).
func generateWarnings(meds []domain.Medication, interactions []domain.DrugInteraction, adjustments []domain.DosingAdjustment, patient domain.PatientContext) []string {
	var warnings []string

	for _, med := range meds {
		if catalog.MedicationIsHighAlert(med) {
			warnings = append(warnings, fmt.Sprintf("HIGH-ALERT: %s requires extra verification", med.CommercialName))
		}
	}

	majorCount, moderateCount := 0, 0
	for _, i := range interactions {
		switch i.Severity {
		case domain.SeverityMajor:
			majorCount++
		case domain.SeverityModerate:
			moderateCount++
		}
	}
	if majorCount > 0 {
		warnings = append(warnings, fmt.Sprintf("MAJOR: %d major drug interaction(s) detected - review required", majorCount))
	}
	if moderateCount > 0 {
		warnings = append(warnings, fmt.Sprintf("MODERATE: %d moderate drug interaction(s) detected", moderateCount))
	}

	contraindicatedCount, adjustedCount := 0, 0
	for _, a := range adjustments {
		if a.Contraindicated {
			contraindicatedCount++
		} else {
			adjustedCount++
		}
	}
	if contraindicatedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("CONTRAINDICATED: %d medication(s) contraindicated for patient's renal function", contraindicatedCount))
	}
	if adjustedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("DOSE-ADJUST: %d medication(s) require dose adjustment for renal function", adjustedCount))
	}

	if patient.IsElderly() {
		warnings = append(warnings, "ELDERLY: Review for age-appropriate dosing and polypharmacy")
	}
	if patient.IsPediatric() {
		warnings = append(warnings, "PEDIATRIC: Verify age-appropriate formulations and doses")
	}

	return warnings
}

// generateRecommendations composes one line per interaction's management
// text, one AVOID/ADJUST line per adjustment, and a MONITOR line where
// monitoring is required. Grounded on
// MedicationValidationService._generate_recommendations.
func generateRecommendations(interactions []domain.DrugInteraction, adjustments []domain.DosingAdjustment) []string {
	var recommendations []string

	for _, i := range interactions {
		if i.Management == "" {
			continue
		}
		recommendations = append(recommendations, fmt.Sprintf("For %s + %s: %s", i.Drug1Name, i.Drug2Name, i.Management))
	}

	for _, a := range adjustments {
		if a.Contraindicated {
			recommendations = append(recommendations, fmt.Sprintf("AVOID %s - %s. Consider alternatives.", a.MedicationName, a.AdjustmentReason))
			continue
		}
		recommendations = append(recommendations, fmt.Sprintf("ADJUST %s: %s (%s)", a.MedicationName, a.AdjustedDose, a.AdjustmentReason))
		if a.MonitoringRequired && len(a.MonitoringParameters) > 0 {
			recommendations = append(recommendations, fmt.Sprintf("MONITOR for %s: %s", a.MedicationName, strings.Join(a.MonitoringParameters, ", ")))
		}
	}

	return recommendations
}
