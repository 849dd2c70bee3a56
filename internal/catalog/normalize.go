// Package catalog maintains the loaded medication set and its multi-key
// indices, per SPEC_FULL.md §4.1/§4.2.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"pharmaguard/internal/domain"
)

var strengthPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mg|g|ml|mcg|µg|iu|%)`)

var packagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*/\s*(Tab|Cap|Amp|Sach)`),
	regexp.MustCompile(`(?i)(\d+)\s*ml\s*(Syrup|Susp|Drop|Solution)?`),
	regexp.MustCompile(`(?i)(\d+)\s*gm?\s*(Cream|Gel|Oint)`),
}

// dosageFormPattern pairs a detection regex with the form it signals. Order
// matters: the first match wins, mirroring the source's ordered dict scan.
type dosageFormPattern struct {
	pattern *regexp.Regexp
	form    domain.DosageForm
}

var dosageFormPatterns = []dosageFormPattern{
	{regexp.MustCompile(`(?i)\bTab\b|\bTablet\b|F\.C\.Tab`), domain.DosageFormTablet},
	{regexp.MustCompile(`(?i)\bCap\b|\bCapsule\b`), domain.DosageFormCapsule},
	{regexp.MustCompile(`(?i)\bSyrup\b|\bSyr\b`), domain.DosageFormSyrup},
	{regexp.MustCompile(`(?i)\bAmp\b|\bAmpoule\b`), domain.DosageFormAmpoule},
	{regexp.MustCompile(`(?i)\bInj\b|\bInjection\b|\bVial\b`), domain.DosageFormInjection},
	{regexp.MustCompile(`(?i)\bCream\b|\bCrm\b`), domain.DosageFormCream},
	{regexp.MustCompile(`(?i)\bGel\b|\bEmulgel\b`), domain.DosageFormGel},
	{regexp.MustCompile(`(?i)\bOint\b|\bOintment\b`), domain.DosageFormOintment},
	{regexp.MustCompile(`(?i)\bDrop\b`), domain.DosageFormDrop},
	{regexp.MustCompile(`(?i)\bSusp\b|\bSuspension\b`), domain.DosageFormSuspension},
	{regexp.MustCompile(`(?i)\bSolution\b|\bSol\b`), domain.DosageFormSolution},
	{regexp.MustCompile(`(?i)\bSupp\b|\bSuppository\b`), domain.DosageFormSuppository},
	{regexp.MustCompile(`(?i)\bInhaler\b|\bMDI\b|\bDiskus\b|\bTurbuhaler\b`), domain.DosageFormInhaler},
	{regexp.MustCompile(`(?i)\bPatch\b`), domain.DosageFormPatch},
	{regexp.MustCompile(`(?i)\bPowder\b|\bSach\b`), domain.DosageFormPowder},
}

var nameIndexSuffixes = regexp.MustCompile(`(?i)\b(mg|gm|ml|tab|cap|syrup|amp|cream|gel|oint)\b`)
var nonWord = regexp.MustCompile(`[^\w\s]`)
var digitRun = regexp.MustCompile(`\d+`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// parsed holds the fields the normalizer can extract from a raw commercial
// name; the catalog fills GenericName/ActiveIngredients separately during
// indexing.
type parsed struct {
	strength      string
	strengthValue *float64
	strengthUnit  string
	packageSize   string
	dosageForm    domain.DosageForm
}

// parseCommercialName implements SPEC_FULL.md §4.1's strength/package/form
// extraction, grounded on original_source's Medication._parse_commercial_name.
func parseCommercialName(name string) parsed {
	result := parsed{dosageForm: domain.DosageFormOther}

	if m := strengthPattern.FindStringSubmatch(name); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.strengthValue = &v
		}
		result.strengthUnit = strings.ToLower(m[2])
		result.strength = m[0]
	}

	for _, p := range packagePatterns {
		if m := p.FindString(name); m != "" {
			result.packageSize = m
			break
		}
	}

	for _, dfp := range dosageFormPatterns {
		if dfp.pattern.MatchString(name) {
			result.dosageForm = dfp.form
			break
		}
	}

	return result
}

// normalizeName produces the search/index key for a commercial name: lower
// case, strip punctuation, drop dosage-form/unit words and digit runs,
// collapse whitespace. Grounded on EgyptianDrugDatabase._normalize_name.
func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = nonWord.ReplaceAllString(s, "")
	s = nameIndexSuffixes.ReplaceAllString(s, "")
	s = digitRun.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}
