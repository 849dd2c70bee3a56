package dose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaguard/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestCockcroftGaultMale(t *testing.T) {
	gfr := CockcroftGault(60, 80, 1.2, false)
	// (140-60) * 80 / (72 * 1.2) = 74.07, rounded to 74.1.
	assert.InDelta(t, 74.1, gfr, 0.1)
}

func TestCockcroftGaultFemaleAppliesFactor(t *testing.T) {
	male := CockcroftGault(60, 80, 1.2, false)
	female := CockcroftGault(60, 80, 1.2, true)
	// The factor is applied before rounding: 74.07 * 0.85 = 62.96 -> 63.0,
	// while the rounded male value times 0.85 would give 62.985.
	assert.Greater(t, male, female)
	assert.InDelta(t, 63.0, female, 0.01)
}

func TestCockcroftGaultZeroCreatinineReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, CockcroftGault(60, 80, 0, false))
	assert.Equal(t, 0.0, CockcroftGault(60, 80, -1, false))
}

func TestCKDEPI2021FemaleVsMale(t *testing.T) {
	female := CKDEPI2021(50, 1.0, true)
	male := CKDEPI2021(50, 1.0, false)
	assert.Greater(t, female, 0.0)
	assert.Greater(t, male, 0.0)
}

func TestClassifyRenalFunctionThresholds(t *testing.T) {
	assert.Equal(t, domain.RenalStageNormal, ClassifyRenalFunction(90))
	assert.Equal(t, domain.RenalStageMild, ClassifyRenalFunction(89))
	assert.Equal(t, domain.RenalStageMild, ClassifyRenalFunction(60))
	assert.Equal(t, domain.RenalStageModerate, ClassifyRenalFunction(59))
	assert.Equal(t, domain.RenalStageModerate, ClassifyRenalFunction(30))
	assert.Equal(t, domain.RenalStageSevere, ClassifyRenalFunction(29))
	assert.Equal(t, domain.RenalStageSevere, ClassifyRenalFunction(15))
	assert.Equal(t, domain.RenalStageESRD, ClassifyRenalFunction(14))
}

func TestChildPughScoreBoundaries(t *testing.T) {
	score, class := ChildPughScore(1.5, 4.0, 1.2, AscitesNone, EncephalopathyNone)
	assert.Equal(t, 5, score)
	assert.Equal(t, ChildPughA, class)

	score, class = ChildPughScore(3.5, 2.5, 2.5, AscitesModerateSevere, EncephalopathyGrade3To4)
	assert.Equal(t, 15, score)
	assert.Equal(t, ChildPughC, class)
}

func TestCalculatePatientGFRPrefersExplicit(t *testing.T) {
	d := NewDetector()
	explicit := floatPtr(45)
	patient := domain.PatientContext{GFR: explicit}
	gfr := d.CalculatePatientGFR(patient)
	require.NotNil(t, gfr)
	assert.Equal(t, 45.0, *gfr)
}

func TestCalculatePatientGFRDerivesFromCockcroftGault(t *testing.T) {
	d := NewDetector()
	patient := domain.PatientContext{
		Age:             intPtr(70),
		WeightKg:        floatPtr(65),
		SerumCreatinine: floatPtr(1.5),
		Sex:             domain.SexMale,
	}
	gfr := d.CalculatePatientGFR(patient)
	require.NotNil(t, gfr)
	assert.Greater(t, *gfr, 0.0)
}

func TestCalculatePatientGFRMissingInputsReturnsNil(t *testing.T) {
	d := NewDetector()
	patient := domain.PatientContext{Age: intPtr(70)}
	assert.Nil(t, d.CalculatePatientGFR(patient))
}

func TestGetRenalAdjustmentContraindicatedForMetforminESRD(t *testing.T) {
	d := NewDetector()
	med := domain.Medication{ID: 1, CommercialName: "Glucophage", GenericName: "metformin"}
	adj, ok := d.GetRenalAdjustment(med, domain.RenalStageESRD)
	require.True(t, ok)
	assert.True(t, adj.Contraindicated)
}

func TestGetRenalAdjustmentNoneForNormalStage(t *testing.T) {
	d := NewDetector()
	med := domain.Medication{ID: 1, CommercialName: "Glucophage", GenericName: "metformin"}
	_, ok := d.GetRenalAdjustment(med, domain.RenalStageNormal)
	assert.False(t, ok)
}

func TestGetRenalAdjustmentNSAIDSubstringFallback(t *testing.T) {
	d := NewDetector()
	med := domain.Medication{ID: 1, CommercialName: "Cataflam", GenericName: "diclofenac"}
	adj, ok := d.GetRenalAdjustment(med, domain.RenalStageSevere)
	require.True(t, ok)
	assert.True(t, adj.Contraindicated)
}

func TestCheckPrescriptionSortsContraindicatedFirst(t *testing.T) {
	d := NewDetector()
	meds := []domain.Medication{
		{ID: 1, CommercialName: "Gabapentin"},
		{ID: 2, CommercialName: "Glucophage", GenericName: "metformin"},
	}
	patient := domain.PatientContext{RenalImpairment: domain.RenalStageESRD}
	adjustments := d.CheckPrescription(meds, patient)
	require.Len(t, adjustments, 2)
	assert.True(t, adjustments[0].Contraindicated)
}

func TestCheckPrescriptionRenalStageContraindicatedList(t *testing.T) {
	d := NewDetector()
	patient := domain.PatientContext{GFR: floatPtr(20)}
	meds := []domain.Medication{
		{ID: 1, CommercialName: "Glucophage", GenericName: "metformin"},
		{ID: 2, CommercialName: "Daonil", GenericName: "glyburide"},
		{ID: 3, CommercialName: "Pradaxa", GenericName: "dabigatran"},
	}
	for _, med := range meds {
		adj, ok := d.GetRenalAdjustment(med, d.ClassifyRenalStatus(patient))
		require.True(t, ok, med.CommercialName)
		assert.True(t, adj.Contraindicated, med.CommercialName)
	}
}
