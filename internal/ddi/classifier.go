// Package ddi detects clinically significant drug-drug interactions, per
// SPEC_FULL.md §4.3.
package ddi

import (
	"regexp"
	"strings"
)

// drugClasses groups interchangeable drugs under a pharmacologic class key
// so a rule written against "nsaid" matches any member. Grounded verbatim on
// DrugClassifier.DRUG_CLASSES.
var drugClasses = map[string][]string{
	"ace_inhibitor": {
		"lisinopril", "enalapril", "ramipril", "captopril", "perindopril",
		"quinapril", "benazepril", "fosinopril", "moexipril", "trandolapril",
	},
	"arb": {
		"losartan", "valsartan", "irbesartan", "candesartan", "olmesartan",
		"telmisartan", "eprosartan", "azilsartan",
	},
	"nsaid": {
		"ibuprofen", "diclofenac", "naproxen", "indomethacin", "piroxicam",
		"meloxicam", "celecoxib", "ketoprofen", "aspirin", "ketorolac",
		"brufen", "cataflam", "voltaren",
	},
	"ssri": {
		"fluoxetine", "sertraline", "paroxetine", "citalopram", "escitalopram",
		"fluvoxamine",
	},
	"opioid": {
		"morphine", "codeine", "tramadol", "fentanyl", "oxycodone",
		"hydrocodone", "hydromorphone", "meperidine", "methadone",
	},
	"benzodiazepine": {
		"diazepam", "lorazepam", "alprazolam", "clonazepam", "midazolam",
		"temazepam", "oxazepam", "chlordiazepoxide",
	},
	"statin": {
		"simvastatin", "atorvastatin", "rosuvastatin", "pravastatin",
		"lovastatin", "fluvastatin", "pitavastatin",
	},
	"fluoroquinolone": {
		"ciprofloxacin", "levofloxacin", "moxifloxacin", "ofloxacin",
		"norfloxacin", "gatifloxacin",
	},
	"maoi": {
		"phenelzine", "tranylcypromine", "isocarboxazid", "selegiline",
		"rasagiline",
	},
	"sulfonylurea": {
		"glipizide", "glyburide", "glimepiride", "glibenclamide", "gliclazide",
	},
	"potassium": {
		"potassium chloride", "potassium citrate", "potassium", "k-dur",
		"slow-k", "kay ciel",
	},
	"diuretic": {
		"furosemide", "hydrochlorothiazide", "chlorthalidone", "bumetanide",
		"torsemide", "metolazone", "lasix",
	},
}

var normalizeSuffixes = regexp.MustCompile(`(?i)\b(\d+\s*(mg|g|ml|mcg)|Tab|Cap|Syrup|Amp|Cream|Gel|Oint|F\.C\.Tab)\b`)
var normalizeWhitespace = regexp.MustCompile(`\s+`)

// normalizeDrugName strips strength and dosage-form tokens so "Panadol
// 500mg Tab" and "panadol" compare equal for classification purposes.
// Grounded on DrugClassifier.normalize_drug_name.
func normalizeDrugName(name string) string {
	s := strings.ToLower(name)
	s = normalizeSuffixes.ReplaceAllString(s, "")
	s = normalizeWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}

// classesFor returns every drug-class key whose membership list contains a
// substring match of name (commercial name, generic name, or ingredient).
func classesFor(name string) []string {
	normalized := normalizeDrugName(name)
	var matches []string
	for class, members := range drugClasses {
		for _, member := range members {
			if strings.Contains(normalized, member) {
				matches = append(matches, class)
				break
			}
		}
	}
	return matches
}
