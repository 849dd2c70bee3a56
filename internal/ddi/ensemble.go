package ddi

import (
	"math"
	"strings"

	"pharmaguard/internal/domain"
)

// riskVector holds a drug's exposure on three fixed risk dimensions, each in
// [0, 1]: bleeding, QT prolongation, and CNS depression. Grounded on
// SPEC_FULL.md §4.3's ensemble extension; values are a small fixed table,
// not learned, and are advisory only (§9).
type riskVector [3]float64

var embeddingTable = map[string]riskVector{
	"warfarin":      {0.95, 0.05, 0.05},
	"aspirin":       {0.70, 0.05, 0.05},
	"heparin":       {0.90, 0.05, 0.05},
	"clopidogrel":   {0.75, 0.05, 0.05},
	"amiodarone":    {0.05, 0.85, 0.05},
	"clarithromycin": {0.05, 0.70, 0.05},
	"azithromycin":  {0.05, 0.40, 0.05},
	"ciprofloxacin": {0.05, 0.60, 0.05},
	"levofloxacin":  {0.05, 0.60, 0.05},
	"domperidone":   {0.05, 0.65, 0.05},
	"morphine":      {0.05, 0.05, 0.90},
	"fentanyl":      {0.05, 0.05, 0.90},
	"tramadol":      {0.05, 0.05, 0.60},
	"diazepam":      {0.05, 0.05, 0.80},
	"alprazolam":    {0.05, 0.05, 0.80},
	"fluoxetine":    {0.05, 0.10, 0.30},
	"sertraline":    {0.05, 0.10, 0.30},
}

// Ensemble is an opt-in auxiliary detector augmenting the rule base with an
// embedding-derived interaction score. It is never constructed by default;
// the engine must explicitly opt in. Grounded on SPEC_FULL.md §4.3's
// "ensemble extension (optional path)".
type Ensemble struct{}

func NewEnsemble() *Ensemble { return &Ensemble{} }

func vectorFor(med domain.Medication) (riskVector, bool) {
	name := strings.ToLower(med.CommercialName)
	if v, ok := embeddingTable[name]; ok {
		return v, true
	}
	if med.GenericName != "" {
		if v, ok := embeddingTable[strings.ToLower(med.GenericName)]; ok {
			return v, true
		}
	}
	for key, v := range embeddingTable {
		if strings.Contains(name, key) {
			return v, true
		}
	}
	return riskVector{}, false
}

func cosineSimilarity(a, b riskVector) float64 {
	var dot, magA, magB float64
	for i := 0; i < 3; i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// score computes the interaction probability for a medication pair: the
// element-wise maximum across risk dimensions plus a same-class cosine bonus.
func (e *Ensemble) score(med1, med2 domain.Medication) (float64, bool) {
	v1, ok1 := vectorFor(med1)
	v2, ok2 := vectorFor(med2)
	if !ok1 || !ok2 {
		return 0, false
	}

	maxDim := 0.0
	for i := 0; i < 3; i++ {
		m := math.Max(v1[i], v2[i])
		if m > maxDim {
			maxDim = m
		}
	}

	bonus := 0.0
	sameClass := false
	for _, c1 := range classesFor(med1.CommercialName) {
		for _, c2 := range classesFor(med2.CommercialName) {
			if c1 == c2 {
				sameClass = true
			}
		}
	}
	if sameClass {
		bonus = 0.1 * cosineSimilarity(v1, v2)
	}

	probability := maxDim + bonus
	if probability > 1 {
		probability = 1
	}
	return probability, true
}

func severityFromProbability(p float64) (domain.Severity, bool) {
	switch {
	case p > 0.8:
		return domain.SeverityMajor, true
	case p > 0.5:
		return domain.SeverityModerate, true
	case p > 0.3:
		return domain.SeverityMinor, true
	default:
		return "", false
	}
}

// CheckPair augments a rule-base result with an embedding-only prediction
// when the rule base found nothing for this pair. When the rule base already
// matched, callers should prefer that result; this method is only consulted
// by Detector.CheckPairWithEnsemble for the gap-filling case.
func (e *Ensemble) CheckPair(med1, med2 domain.Medication) (domain.DrugInteraction, bool) {
	probability, ok := e.score(med1, med2)
	if !ok {
		return domain.DrugInteraction{}, false
	}
	severity, ok := severityFromProbability(probability)
	if !ok {
		return domain.DrugInteraction{}, false
	}
	slug := strings.ToLower(med1.GenericName) + "-" + strings.ToLower(med2.GenericName)
	if med1.GenericName == "" || med2.GenericName == "" {
		slug = strings.ToLower(med1.CommercialName) + "-" + strings.ToLower(med2.CommercialName)
	}

	return domain.DrugInteraction{
		Drug1ID:           med1.ID,
		Drug2ID:           med2.ID,
		Drug1Name:         med1.CommercialName,
		Drug2Name:         med2.CommercialName,
		Severity:          severity,
		InteractionType:   slug,
		Mechanism:         "embedding-derived risk overlap on shared pharmacologic risk dimensions",
		ClinicalEffect:    "Unconfirmed risk of additive toxicity; no rule-base entry exists for this pair",
		Management:        "Review manually; no rule-base match found.",
		EvidenceLevel:     1,
		Source:            "ensemble",
		RequiresReview:    true,
		IsNovelPrediction: true,
	}, true
}

// CheckPairWithEnsemble runs the rule base first; when it finds nothing for
// the pair, it consults the ensemble as a fallback. Rule-base results are
// always authoritative and are never replaced by an ensemble prediction.
func (d *Detector) CheckPairWithEnsemble(ensemble *Ensemble, med1, med2 domain.Medication) []domain.DrugInteraction {
	ruleResults := d.CheckPair(med1, med2)
	if len(ruleResults) > 0 || ensemble == nil {
		return ruleResults
	}
	if prediction, ok := ensemble.CheckPair(med1, med2); ok {
		return []domain.DrugInteraction{prediction}
	}
	return nil
}
