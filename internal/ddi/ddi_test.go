package ddi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaguard/internal/domain"
)

func med(id int, commercial, generic string, ingredients ...string) domain.Medication {
	return domain.Medication{
		ID:                id,
		CommercialName:    commercial,
		GenericName:       generic,
		ActiveIngredients: ingredients,
	}
}

func TestCheckPairWarfarinAspirinIsMajor(t *testing.T) {
	d := NewDetector()
	results := d.CheckPair(med(1, "Coumadin", "warfarin"), med(2, "Aspocid", "aspirin"))
	require.Len(t, results, 1)
	assert.Equal(t, domain.SeverityMajor, results[0].Severity)
}

func TestCheckPairIsSymmetric(t *testing.T) {
	d := NewDetector()
	a := d.CheckPair(med(1, "Coumadin", "warfarin"), med(2, "Aspocid", "aspirin"))
	b := d.CheckPair(med(2, "Aspocid", "aspirin"), med(1, "Coumadin", "warfarin"))
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Severity, b[0].Severity)
	assert.Equal(t, a[0].Mechanism, b[0].Mechanism)
}

func TestCheckPairClassMatch(t *testing.T) {
	d := NewDetector()
	// lisinopril is an ace_inhibitor; "potassium chloride" is a potassium class member.
	results := d.CheckPair(med(1, "Zestril", "lisinopril"), med(2, "K-Dur", "potassium chloride"))
	require.Len(t, results, 1)
	assert.Equal(t, domain.SeverityMajor, results[0].Severity)
}

func TestCheckPairNoInteraction(t *testing.T) {
	d := NewDetector()
	results := d.CheckPair(med(1, "Panadol", "paracetamol"), med(2, "Vitamin C", "ascorbic acid"))
	assert.Empty(t, results)
}

func TestCheckPairDeduplicatesAcrossIdentifierPaths(t *testing.T) {
	d := NewDetector()
	// Commercial name "Cataflam" and generic "diclofenac" both resolve to the
	// nsaid class against warfarin; only one interaction should be emitted.
	results := d.CheckPair(med(1, "Coumadin", "warfarin"), med(2, "Cataflam", "diclofenac"))
	assert.Len(t, results, 1)
}

func TestCheckPrescriptionSortsBySeverityRank(t *testing.T) {
	d := NewDetector()
	meds := []domain.Medication{
		med(1, "Glucophage", "metformin"),
		med(2, "Amaryl", "glimepiride"),
		med(3, "Diflucan", "fluconazole"),
		med(4, "Coumadin", "warfarin"),
		med(5, "Aspocid", "aspirin"),
	}
	results := d.CheckPrescription(meds)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Severity.Rank(), results[i].Severity.Rank())
	}
}

func TestCheckPrescriptionEmptyYieldsNoInteractions(t *testing.T) {
	d := NewDetector()
	assert.Empty(t, d.CheckPrescription(nil))
	assert.Empty(t, d.CheckPrescription([]domain.Medication{med(1, "Panadol", "paracetamol")}))
}

func TestEnsembleOffByDefaultMeansNilSafe(t *testing.T) {
	d := NewDetector()
	results := d.CheckPairWithEnsemble(nil, med(1, "Panadol", "paracetamol"), med(2, "Vitamin C", "ascorbic acid"))
	assert.Empty(t, results)
}

func TestEnsembleFallsBackOnlyWhenRuleBaseEmpty(t *testing.T) {
	d := NewDetector()
	e := NewEnsemble()

	// Rule-base match: warfarin+aspirin must stay the authoritative rule
	// result, not be replaced by an ensemble prediction.
	ruleBased := d.CheckPairWithEnsemble(e, med(1, "Coumadin", "warfarin"), med(2, "Aspocid", "aspirin"))
	require.Len(t, ruleBased, 1)
	assert.False(t, ruleBased[0].IsNovelPrediction)

	// No rule-base match (there is no opioid-SSRI rule) but both drugs carry
	// embedding vectors; morphine's CNS risk of 0.90 scores above 0.8.
	predicted := d.CheckPairWithEnsemble(e, med(3, "MST Continus", "morphine"), med(4, "Zoloft", "sertraline"))
	if len(predicted) > 0 {
		assert.True(t, predicted[0].IsNovelPrediction)
		assert.True(t, predicted[0].RequiresReview)
	}
}
