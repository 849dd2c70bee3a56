package validation

import (
	"fmt"
	"log"
	"time"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/catalog"
	"pharmaguard/internal/ddi"
	"pharmaguard/internal/dose"
	"pharmaguard/internal/domain"
)

// Pipeline composes the catalog, DDI detector, and dose detector into the
// single synchronous validate operation. It holds no per-request state and
// is safe for concurrent use by multiple request handlers (SPEC_FULL.md §5).
type Pipeline struct {
	catalog       *catalog.Catalog
	ddiDetector   *ddi.Detector
	doseDetector  *dose.Detector
	ensemble      *ddi.Ensemble
}

// Option configures an optional extension of the pipeline at construction
// time; the ensemble detector is off unless WithEnsemble is passed.
type Option func(*Pipeline)

// WithEnsemble opts the pipeline into the auxiliary embedding-based DDI
// detector described in SPEC_FULL.md §4.3. Off by default.
func WithEnsemble(e *ddi.Ensemble) Option {
	return func(p *Pipeline) { p.ensemble = e }
}

func NewPipeline(cat *catalog.Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:      cat,
		ddiDetector:  ddi.NewDetector(),
		doseDetector: dose.NewDetector(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsembleEnabled reports whether this pipeline consults the embedding-based
// DDI detector as a gap-filler.
func (p *Pipeline) EnsembleEnabled() bool {
	return p.ensemble != nil
}

// resolveMedications looks up each item's medication id in the catalog,
// skipping and logging unknown ids. Grounded on
// MedicationValidationService._resolve_medications.
func (p *Pipeline) resolveMedications(items []domain.PrescriptionItem) []domain.Medication {
	meds := make([]domain.Medication, 0, len(items))
	for _, item := range items {
		med, err := p.catalog.Get(item.MedicationID)
		if err != nil {
			log.Printf("validation: skipping unknown medication id %d", item.MedicationID)
			continue
		}
		meds = append(meds, med)
	}
	return meds
}

// interactions runs the rule base, falling back to the ensemble for pairs
// with no rule-base match when one was configured.
func (p *Pipeline) interactions(meds []domain.Medication) []domain.DrugInteraction {
	if p.ensemble == nil {
		return p.ddiDetector.CheckPrescription(meds)
	}

	var all []domain.DrugInteraction
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			all = append(all, p.ddiDetector.CheckPairWithEnsemble(p.ensemble, meds[i], meds[j])...)
		}
	}
	sortInteractionsBySeverity(all)
	return all
}

func sortInteractionsBySeverity(interactions []domain.DrugInteraction) {
	for i := 1; i < len(interactions); i++ {
		for j := i; j > 0 && interactions[j-1].Severity.Rank() > interactions[j].Severity.Rank(); j-- {
			interactions[j-1], interactions[j] = interactions[j], interactions[j-1]
		}
	}
}

// Validate runs the full pipeline over a prescription: resolve, DDI, dose,
// contraindications, warnings, recommendations, validity. Grounded on
// MedicationValidationService.validate_prescription.
func (p *Pipeline) Validate(prescription domain.Prescription) (domain.ValidationResult, error) {
	if !p.catalog.Loaded() {
		return domain.ValidationResult{}, apperr.New(apperr.CatalogNotLoaded, "catalog not loaded")
	}

	start := time.Now()

	meds := p.resolveMedications(prescription.Items)
	interactions := p.interactions(meds)
	adjustments := p.doseDetector.CheckPrescription(meds, prescription.Patient)
	contraindications := checkContraindications(meds, prescription.Patient)
	warnings := generateWarnings(meds, interactions, adjustments, prescription.Patient)
	recommendations := generateRecommendations(interactions, adjustments)

	result := domain.ValidationResult{
		PrescriptionID:       prescription.ID,
		MedicationsValidated: len(meds),
		Interactions:         interactions,
		DosingAdjustments:    adjustments,
		Contraindications:    contraindications,
		Warnings:             warnings,
		Recommendations:      recommendations,
		ValidationTimeMs:     float64(time.Since(start).Microseconds()) / 1000.0,
		ValidatedAt:          time.Now(),
	}
	result.IsValid = result.Status() != domain.StatusBlocked

	return result, nil
}

// ValidatePair is a quick pairwise check: returns the interactions between
// two medication ids, or an empty slice if either id is unknown. Grounded on
// MedicationValidationService.validate_medication_pair.
func (p *Pipeline) ValidatePair(medID1, medID2 int) ([]domain.DrugInteraction, error) {
	if !p.catalog.Loaded() {
		return nil, apperr.New(apperr.CatalogNotLoaded, "catalog not loaded")
	}

	med1, err := p.catalog.Get(medID1)
	if err != nil {
		return nil, nil
	}
	med2, err := p.catalog.Get(medID2)
	if err != nil {
		return nil, nil
	}

	return p.ddiDetector.CheckPair(med1, med2), nil
}

// ValidateList builds a synthetic prescription from bare medication ids
// (blank dose/frequency) and an optional patient context, then validates it.
// Grounded on MedicationValidationService.validate_medication_list.
func (p *Pipeline) ValidateList(medicationIDs []int, patient *domain.PatientContext) (domain.ValidationResult, error) {
	items := make([]domain.PrescriptionItem, 0, len(medicationIDs))
	for _, id := range medicationIDs {
		items = append(items, domain.PrescriptionItem{MedicationID: id})
	}

	prescription := domain.Prescription{
		ID:        fmt.Sprintf("quick-%d", time.Now().UnixNano()),
		Items:     items,
		CreatedAt: time.Now(),
	}
	if patient != nil {
		prescription.Patient = *patient
	}

	return p.Validate(prescription)
}
