package domain

// PatientContext is a value object carried with a prescription. A nil value
// on any pointer field means "not supplied" and the dose detector may derive
// a substitute (e.g. GFR) without mutating the original context.
type PatientContext struct {
	Age               *int           `json:"age,omitempty"`
	WeightKg          *float64       `json:"weight_kg,omitempty"`
	HeightCm          *float64       `json:"height_cm,omitempty"`
	Sex               Sex            `json:"sex,omitempty"`
	SerumCreatinine   *float64       `json:"serum_creatinine,omitempty"`
	GFR               *float64       `json:"gfr,omitempty"`
	RenalImpairment   RenalStage     `json:"renal_impairment,omitempty"`
	HepaticImpairment HepaticStage   `json:"hepatic_impairment,omitempty"`
	ChildPughScore    *int           `json:"child_pugh_score,omitempty"`
	Allergies         []string       `json:"allergies,omitempty"`
	Conditions        []string       `json:"conditions,omitempty"`
	CurrentMedications []int         `json:"current_medications,omitempty"`
	IsPregnant        bool           `json:"is_pregnant"`
	IsBreastfeeding   bool           `json:"is_breastfeeding"`
}

// IsElderly reports whether the patient is 65 or older. Returns false when
// age is unknown.
func (p PatientContext) IsElderly() bool {
	return p.Age != nil && *p.Age >= 65
}

// IsPediatric reports whether the patient is under 18. Returns false when
// age is unknown.
func (p PatientContext) IsPediatric() bool {
	return p.Age != nil && *p.Age < 18
}
