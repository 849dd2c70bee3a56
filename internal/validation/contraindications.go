// Package validation implements the synchronous validation pipeline that
// composes the catalog, DDI, and dose subsystems into a single
// ValidationResult, per SPEC_FULL.md §4.5.
package validation

import (
	"fmt"
	"strings"

	"pharmaguard/internal/domain"
)

// pregnancySubstrings names medications contraindicated throughout pregnancy,
// matched as a substring of the commercial or generic name. Grounded on
// MedicationValidationService._check_contraindications.
var pregnancySubstrings = []string{
	"methotrexate", "warfarin", "isotretinoin", "thalidomide", "misoprostol",
	"finasteride", "statins", "ace_inhibitor", "tetracycline", "fluoroquinolone",
}

// conditionForbiddenSubstrings maps a normalized condition name to the
// medication-name substrings it forbids or requires caution around.
var conditionForbiddenSubstrings = map[string][]string{
	"asthma":            {"beta_blocker", "aspirin", "nsaid"},
	"heart_failure":     {"nsaid", "thiazolidinedione", "verapamil", "diltiazem"},
	"peptic_ulcer":      {"nsaid", "aspirin", "corticosteroid"},
	"gout":              {"thiazide", "loop_diuretic", "aspirin"},
	"myasthenia_gravis": {"aminoglycoside", "fluoroquinolone", "beta_blocker"},
}

func normalizeCondition(condition string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(condition)), " ", "_")
}

// checkContraindications returns one message per medication/condition
// violation, per SPEC_FULL.md §4.5 step 4.
func checkContraindications(meds []domain.Medication, patient domain.PatientContext) []string {
	var out []string

	if patient.IsPregnant {
		for _, med := range meds {
			nameLower := strings.ToLower(med.CommercialName)
			genericLower := strings.ToLower(med.GenericName)
			for _, forbidden := range pregnancySubstrings {
				if strings.Contains(nameLower, forbidden) || strings.Contains(genericLower, forbidden) {
					out = append(out, fmt.Sprintf("%s: Contraindicated in pregnancy", med.CommercialName))
					break
				}
			}
		}
	}

	for _, condition := range patient.Conditions {
		forbidden, ok := conditionForbiddenSubstrings[normalizeCondition(condition)]
		if !ok {
			continue
		}
		for _, med := range meds {
			nameLower := strings.ToLower(med.CommercialName)
			for _, substr := range forbidden {
				if strings.Contains(nameLower, substr) {
					out = append(out, fmt.Sprintf("%s: Caution/Contraindicated with %s", med.CommercialName, condition))
					break
				}
			}
		}
	}

	return out
}
