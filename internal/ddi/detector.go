package ddi

import (
	"sort"
	"strings"

	"pharmaguard/internal/domain"
)

// Detector checks medication pairs against the critical interaction rule
// set. It holds no mutable state after construction and is safe for
// concurrent use. Grounded on DDIEngine.
type Detector struct {
	rules ruleIndex
}

func NewDetector() *Detector {
	return &Detector{rules: buildRuleIndex()}
}

// identifiers returns every key a medication can be matched under: its
// normalized commercial name, generic name, each active ingredient, and any
// drug class it belongs to. Grounded on DDIEngine._get_identifiers.
func identifiers(med domain.Medication) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		ids = append(ids, s)
	}

	add(normalizeDrugName(med.CommercialName))
	add(med.GenericName)
	for _, ing := range med.ActiveIngredients {
		add(ing)
	}
	for _, class := range classesFor(med.CommercialName) {
		add(class)
	}
	for _, class := range classesFor(med.GenericName) {
		add(class)
	}

	return ids
}

// CheckPair returns the interactions between exactly two medications. Every
// (identifier1, identifier2) combination is checked; a given rule key is
// reported at most once even if multiple identifier pairs resolve to it.
// When a rule names both drugs directly (neither identifier is a drug-class
// slug), rules reached only through a drug class are dropped for that pair,
// so warfarin + aspirin reports warfarin-aspirin and not also warfarin-nsaid.
func (d *Detector) CheckPair(med1, med2 domain.Medication) []domain.DrugInteraction {
	ids1 := identifiers(med1)
	ids2 := identifiers(med2)

	checkedKeys := make(map[[2]string]bool)
	var direct, viaClass []domain.DrugInteraction

	for _, id1 := range ids1 {
		for _, id2 := range ids2 {
			key := [2]string{id1, id2}
			if checkedKeys[key] {
				continue
			}
			checkedKeys[key] = true

			rules, ok := d.rules[key]
			if !ok || len(rules) == 0 {
				continue
			}
			r := rules[0]
			interaction := domain.DrugInteraction{
				Drug1ID:         med1.ID,
				Drug2ID:         med2.ID,
				Drug1Name:       med1.CommercialName,
				Drug2Name:       med2.CommercialName,
				Severity:        r.severity,
				InteractionType: r.slug,
				Mechanism:       r.mechanism,
				ClinicalEffect:  r.clinicalEffect,
				Management:      r.management,
				EvidenceLevel:   2,
				Source:          "critical-rule-base",
			}
			_, class1 := drugClasses[id1]
			_, class2 := drugClasses[id2]
			if class1 || class2 {
				viaClass = append(viaClass, interaction)
			} else {
				direct = append(direct, interaction)
			}
		}
	}

	if len(direct) > 0 {
		return direct
	}
	return viaClass
}

// CheckPrescription checks every unordered pair of medications and returns
// all interactions found, sorted most severe first. Grounded on
// DDIEngine.check_prescription, but sorted by Severity.Rank instead of the
// source's reverse-lexicographic string sort (see SPEC_FULL.md §9).
func (d *Detector) CheckPrescription(meds []domain.Medication) []domain.DrugInteraction {
	var all []domain.DrugInteraction
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			all = append(all, d.CheckPair(meds[i], meds[j])...)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity.Rank() < all[j].Severity.Rank()
	})

	return all
}
