package catalog

import (
	"encoding/json"
	"io"
	"log"
	"regexp"
	"strings"
	"sync"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/domain"
)

var parenToken = regexp.MustCompile(`\(([^)]+)\)`)
var digitsOnly = regexp.MustCompile(`^\d+$`)

// bootstrapRow is the wire shape of one medication in a catalog bootstrap
// file, per SPEC_FULL.md §6.3.
type bootstrapRow struct {
	ID                    int      `json:"id"`
	CommercialName        string   `json:"commercial_name"`
	GenericName           string   `json:"generic_name"`
	ActiveIngredients     []string `json:"active_ingredients"`
	Strength              string   `json:"strength"`
	StrengthValue         *float64 `json:"strength_value"`
	StrengthUnit          string   `json:"strength_unit"`
	DosageForm            string   `json:"dosage_form"`
	PackageSize           string   `json:"package_size"`
	Manufacturer          string   `json:"manufacturer"`
	ATCCode               string   `json:"atc_code"`
	RegulatorRegistration string   `json:"eda_registration"`
	RxNormID              string   `json:"rxnorm_id"`
	DrugBankID            string   `json:"drugbank_id"`
	IsOTC                 bool     `json:"is_otc"`
	IsControlled          bool     `json:"is_controlled"`
}

type bootstrapFile struct {
	Medications []bootstrapRow         `json:"medications"`
	Stats       map[string]interface{} `json:"stats"`
}

// Statistics summarizes the current catalog contents, per SPEC_FULL.md §4.2.
type Statistics struct {
	TotalMedications     int            `json:"total_medications"`
	UniqueGenerics       int            `json:"unique_generics"`
	UniqueIngredients    int            `json:"unique_ingredients"`
	HighAlertCount       int            `json:"high_alert_count"`
	DosageFormDistribution map[string]int `json:"dosage_form_distribution"`
	WithGenericMapping   int            `json:"with_generic_mapping"`
}

// Catalog is the read-mostly medication index. It is safe for concurrent
// readers; Load serializes against readers via mu, matching the
// single-writer/many-reader discipline in SPEC_FULL.md §5/§9.
type Catalog struct {
	mu               sync.RWMutex
	medications      map[int]domain.Medication
	nameIndex        map[string][]int
	genericIndex     map[string][]int
	ingredientIndex  map[string][]int
}

func New() *Catalog {
	return &Catalog{
		medications:     make(map[int]domain.Medication),
		nameIndex:       make(map[string][]int),
		genericIndex:    make(map[string][]int),
		ingredientIndex: make(map[string][]int),
	}
}

// Load reads a processed JSON bootstrap file and indexes every medication
// row. Load is idempotent: loading the same content twice yields identical
// catalog contents, and a duplicate id is replaced by the later row. A
// malformed individual row is skipped with a logged warning; loading
// continues (SPEC_FULL.md §4.2 Failure / §7 propagation rules).
func (c *Catalog) Load(r io.Reader) (int, error) {
	var file bootstrapFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return 0, apperr.Internalf("parsing catalog bootstrap: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	loaded := 0
	for _, row := range file.Medications {
		if row.CommercialName == "" {
			log.Printf("catalog: skipping medication %d with empty commercial name", row.ID)
			continue
		}

		form, err := domain.ParseDosageForm(row.DosageForm)
		if err != nil {
			form = domain.DosageFormOther
		}

		parsedFromName := parseCommercialName(row.CommercialName)
		if form == domain.DosageFormOther && row.DosageForm == "" {
			form = parsedFromName.dosageForm
		}

		med := domain.Medication{
			ID:                    row.ID,
			CommercialName:        row.CommercialName,
			GenericName:           strings.ToLower(row.GenericName),
			ActiveIngredients:     row.ActiveIngredients,
			Strength:              firstNonEmpty(row.Strength, parsedFromName.strength),
			StrengthValue:         firstNonNilFloat(row.StrengthValue, parsedFromName.strengthValue),
			StrengthUnit:          firstNonEmpty(row.StrengthUnit, parsedFromName.strengthUnit),
			DosageForm:            form,
			PackageSize:           firstNonEmpty(row.PackageSize, parsedFromName.packageSize),
			Manufacturer:          row.Manufacturer,
			ATCCode:               row.ATCCode,
			RegulatorRegistration: row.RegulatorRegistration,
			RxNormID:              row.RxNormID,
			DrugBankID:            row.DrugBankID,
			IsOTC:                 row.IsOTC,
			IsControlled:          row.IsControlled,
		}

		c.removeFromIndicesLocked(med.ID)
		c.indexLocked(&med)
		c.medications[med.ID] = med
		loaded++
	}

	return loaded, nil
}

// removeFromIndicesLocked drops any stale index entries for id before a
// reload replaces it, so Load stays idempotent across repeated calls.
func (c *Catalog) removeFromIndicesLocked(id int) {
	if _, ok := c.medications[id]; !ok {
		return
	}
	for key, ids := range c.nameIndex {
		c.nameIndex[key] = removeID(ids, id)
	}
	for key, ids := range c.genericIndex {
		c.genericIndex[key] = removeID(ids, id)
	}
	for key, ids := range c.ingredientIndex {
		c.ingredientIndex[key] = removeID(ids, id)
	}
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// indexLocked derives the commercial-name, generic-name, and ingredient
// indices for med and sets its GenericName/ActiveIngredients fields, per
// SPEC_FULL.md §4.2 Indexing rules.
func (c *Catalog) indexLocked(med *domain.Medication) {
	nameKey := normalizeName(med.CommercialName)
	c.nameIndex[nameKey] = append(c.nameIndex[nameKey], med.ID)

	generic := med.GenericName
	if generic == "" {
		generic = extractGenericName(med.CommercialName)
	}
	if generic != "" {
		generic = strings.ToLower(generic)
		med.GenericName = generic
		c.genericIndex[generic] = append(c.genericIndex[generic], med.ID)
	}

	if len(med.ActiveIngredients) == 0 {
		med.ActiveIngredients = extractIngredients(med.CommercialName)
	}
	for _, ing := range med.ActiveIngredients {
		ing = strings.ToLower(ing)
		c.ingredientIndex[ing] = append(c.ingredientIndex[ing], med.ID)
	}
}

// extractGenericName consults the brand table first, falling back to a
// parenthesized non-numeric token in the commercial name.
func extractGenericName(commercialName string) string {
	lower := strings.ToLower(commercialName)
	for brand, generic := range brandToGeneric {
		if strings.Contains(lower, brand) {
			return generic
		}
	}
	if m := parenToken.FindStringSubmatch(commercialName); m != nil {
		token := strings.TrimSpace(m[1])
		if token != "" && !digitsOnly.MatchString(token) {
			return strings.ToLower(token)
		}
	}
	return ""
}

// extractIngredients applies the brand table and splits "a/b" combinations
// into their components.
func extractIngredients(commercialName string) []string {
	lower := strings.ToLower(commercialName)
	var ingredients []string
	for brand, generic := range brandToGeneric {
		if strings.Contains(lower, brand) {
			if strings.Contains(generic, "/") {
				ingredients = append(ingredients, strings.Split(generic, "/")...)
			} else {
				ingredients = append(ingredients, generic)
			}
		}
	}
	return ingredients
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNilFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Get returns a medication by id, or apperr.NotFound.
func (c *Catalog) Get(id int) (domain.Medication, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	med, ok := c.medications[id]
	if !ok {
		return domain.Medication{}, apperr.NotFoundf("medication %d not found", id)
	}
	return med, nil
}

// GetMany returns the medications for ids, preserving order and silently
// dropping unknown ids.
func (c *Catalog) GetMany(ids []int) []domain.Medication {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Medication, 0, len(ids))
	for _, id := range ids {
		if med, ok := c.medications[id]; ok {
			out = append(out, med)
		}
	}
	return out
}

// Search ranks up to limit medications by commercial-name, then
// generic-name, then ingredient substring match, deduplicated by id, per
// SPEC_FULL.md §4.2.
func (c *Catalog) Search(query string, limit int) []domain.Medication {
	c.mu.RLock()
	defer c.mu.RUnlock()

	queryLower := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[int]bool)
	var results []domain.Medication

	add := func(id int) {
		if seen[id] {
			return
		}
		if med, ok := c.medications[id]; ok {
			results = append(results, med)
			seen[id] = true
		}
	}

	for id, med := range c.medications {
		if strings.Contains(strings.ToLower(med.CommercialName), queryLower) {
			add(id)
		}
	}
	for generic, ids := range c.genericIndex {
		if strings.Contains(generic, queryLower) {
			for _, id := range ids {
				add(id)
			}
		}
	}
	for ingredient, ids := range c.ingredientIndex {
		if strings.Contains(ingredient, queryLower) {
			for _, id := range ids {
				add(id)
			}
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// IsHighAlert reports whether med's commercial or generic name contains a
// known high-alert drug substring.
func (c *Catalog) IsHighAlert(id int) bool {
	c.mu.RLock()
	med, ok := c.medications[id]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return MedicationIsHighAlert(med)
}

// MedicationIsHighAlert is the pure, catalog-independent form of IsHighAlert
// so callers holding a Medication value (e.g. the validation pipeline) don't
// need a second catalog round trip.
func MedicationIsHighAlert(med domain.Medication) bool {
	nameLower := strings.ToLower(med.CommercialName)
	for _, drug := range highAlertDrugs {
		if strings.Contains(nameLower, drug) {
			return true
		}
	}
	if med.GenericName != "" {
		genericLower := strings.ToLower(med.GenericName)
		for _, drug := range highAlertDrugs {
			if strings.Contains(genericLower, drug) {
				return true
			}
		}
	}
	return false
}

// Similar returns other medications sharing the same generic name.
func (c *Catalog) Similar(id int) []domain.Medication {
	c.mu.RLock()
	defer c.mu.RUnlock()
	med, ok := c.medications[id]
	if !ok || med.GenericName == "" {
		return nil
	}
	var out []domain.Medication
	for _, otherID := range c.genericIndex[med.GenericName] {
		if otherID != id {
			if other, ok := c.medications[otherID]; ok {
				out = append(out, other)
			}
		}
	}
	return out
}

// Statistics summarizes the loaded catalog, per SPEC_FULL.md §4.2/§6.1.
func (c *Catalog) Statistics() Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	formCounts := make(map[string]int)
	highAlert := 0
	withGeneric := 0
	for _, med := range c.medications {
		formCounts[string(med.DosageForm)]++
		if med.GenericName != "" {
			withGeneric++
		}
		if MedicationIsHighAlert(med) {
			highAlert++
		}
	}

	return Statistics{
		TotalMedications:       len(c.medications),
		UniqueGenerics:         len(c.genericIndex),
		UniqueIngredients:      len(c.ingredientIndex),
		HighAlertCount:         highAlert,
		DosageFormDistribution: formCounts,
		WithGenericMapping:     withGeneric,
	}
}

// Loaded reports whether Load has ever been called with at least one
// medication indexed.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.medications) > 0
}
