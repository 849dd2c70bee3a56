package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaguard/internal/catalog"
	"pharmaguard/internal/domain"
)

const scenarioCatalog = `{
  "medications": [
    {"id": 1, "commercial_name": "Coumadin", "generic_name": "warfarin"},
    {"id": 2, "commercial_name": "Aspocid", "generic_name": "aspirin"},
    {"id": 3, "commercial_name": "Lanoxin", "generic_name": "digoxin"},
    {"id": 4, "commercial_name": "Cordarone", "generic_name": "amiodarone"},
    {"id": 5, "commercial_name": "Glucophage", "generic_name": "metformin"},
    {"id": 6, "commercial_name": "Cipralex", "generic_name": "escitalopram"},
    {"id": 7, "commercial_name": "Tramadol", "generic_name": "tramadol"},
    {"id": 8, "commercial_name": "Ciprobay", "generic_name": "ciprofloxacin"},
    {"id": 9, "commercial_name": "Warfarin", "generic_name": "warfarin"}
  ]
}`

func newScenarioPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cat := catalog.New()
	_, err := cat.Load(strings.NewReader(scenarioCatalog))
	require.NoError(t, err)
	return NewPipeline(cat)
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestEmptyPrescriptionIsValid(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{})
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, 0, result.MedicationsValidated)
	assert.Empty(t, result.Interactions)
	assert.Empty(t, result.DosingAdjustments)
}

func TestScenario1WarfarinAspirinBlocked(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{Age: intPtr(75), Sex: domain.SexMale, GFR: floatPtr(95)},
		Items: []domain.PrescriptionItem{
			{MedicationID: 1}, {MedicationID: 2},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Interactions, 1)
	assert.Equal(t, domain.SeverityMajor, result.Interactions[0].Severity)
	assert.Equal(t, domain.StatusBlocked, result.Status())
}

func TestScenario2DigoxinAmiodarone(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{Age: intPtr(70), Sex: domain.SexMale, GFR: floatPtr(60)},
		Items: []domain.PrescriptionItem{
			{MedicationID: 3}, {MedicationID: 4},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Interactions, 1)
	assert.Equal(t, domain.SeverityMajor, result.Interactions[0].Severity)

	found := false
	for _, rec := range result.Recommendations {
		if strings.Contains(rec, "Reduce digoxin dose by 50") {
			found = true
		}
	}
	assert.True(t, found, "expected a recommendation about reducing digoxin dose")
}

func TestScenario3MetforminContraindicatedAtGFR20(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{GFR: floatPtr(20)},
		Items:   []domain.PrescriptionItem{{MedicationID: 5}},
	})
	require.NoError(t, err)
	require.Len(t, result.DosingAdjustments, 1)
	assert.True(t, result.DosingAdjustments[0].Contraindicated)
	assert.False(t, result.IsValid)
}

func TestScenario4EscitalopramTramadol(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{Age: intPtr(45), Sex: domain.SexFemale},
		Items: []domain.PrescriptionItem{
			{MedicationID: 6}, {MedicationID: 7},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Interactions, 1)
	assert.Equal(t, domain.SeverityMajor, result.Interactions[0].Severity)
	assert.False(t, result.IsValid)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(strings.ToLower(w), "major") {
			found = true
		}
	}
	assert.True(t, found, "expected a warning mentioning the major interaction count")
}

func TestScenario5WarfarinPregnant(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{IsPregnant: true},
		Items:   []domain.PrescriptionItem{{MedicationID: 9}},
	})
	require.NoError(t, err)
	require.Len(t, result.Contraindications, 1)
	assert.Contains(t, result.Contraindications[0], "Warfarin")
	assert.Contains(t, result.Contraindications[0], "Contraindicated in pregnancy")
	assert.False(t, result.IsValid)
}

func TestScenario6AmiodaroneCiprofloxacin(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.Validate(domain.Prescription{
		Patient: domain.PatientContext{Age: intPtr(65), Sex: domain.SexMale},
		Items: []domain.PrescriptionItem{
			{MedicationID: 4}, {MedicationID: 8},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Interactions, 1)
	assert.Equal(t, domain.SeverityMajor, result.Interactions[0].Severity)
	assert.False(t, result.IsValid)
}

func TestValidatePairUnknownIDReturnsEmpty(t *testing.T) {
	p := newScenarioPipeline(t)
	interactions, err := p.ValidatePair(1, 9999)
	require.NoError(t, err)
	assert.Empty(t, interactions)
}

func TestValidatePairIsOrderInsensitive(t *testing.T) {
	p := newScenarioPipeline(t)
	a, err := p.ValidatePair(1, 2)
	require.NoError(t, err)
	b, err := p.ValidatePair(2, 1)
	require.NoError(t, err)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Severity, b[0].Severity)
}

func TestValidateListBuildsSyntheticPrescription(t *testing.T) {
	p := newScenarioPipeline(t)
	result, err := p.ValidateList([]int{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.MedicationsValidated)
	assert.False(t, result.IsValid)
}

func TestValidateRejectsWhenCatalogNotLoaded(t *testing.T) {
	p := NewPipeline(catalog.New())
	_, err := p.Validate(domain.Prescription{})
	assert.Error(t, err)
}
