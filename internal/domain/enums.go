package domain

import "pharmaguard/internal/apperr"

// DosageForm is the closed set of pharmaceutical forms a Medication can take.
type DosageForm string

const (
	DosageFormTablet      DosageForm = "tablet"
	DosageFormCapsule     DosageForm = "capsule"
	DosageFormSyrup       DosageForm = "syrup"
	DosageFormInjection   DosageForm = "injection"
	DosageFormAmpoule     DosageForm = "ampoule"
	DosageFormCream       DosageForm = "cream"
	DosageFormGel         DosageForm = "gel"
	DosageFormOintment    DosageForm = "ointment"
	DosageFormDrop        DosageForm = "drop"
	DosageFormSuspension  DosageForm = "suspension"
	DosageFormSolution    DosageForm = "solution"
	DosageFormSuppository DosageForm = "suppository"
	DosageFormInhaler     DosageForm = "inhaler"
	DosageFormPatch       DosageForm = "patch"
	DosageFormPowder      DosageForm = "powder"
	DosageFormOther       DosageForm = "other"
)

// ParseDosageForm rejects anything outside the closed set as invalid-argument.
func ParseDosageForm(s string) (DosageForm, error) {
	switch DosageForm(s) {
	case DosageFormTablet, DosageFormCapsule, DosageFormSyrup, DosageFormInjection,
		DosageFormAmpoule, DosageFormCream, DosageFormGel, DosageFormOintment,
		DosageFormDrop, DosageFormSuspension, DosageFormSolution, DosageFormSuppository,
		DosageFormInhaler, DosageFormPatch, DosageFormPowder, DosageFormOther:
		return DosageForm(s), nil
	default:
		return "", apperr.InvalidArgumentf("unknown dosage form %q", s)
	}
}

// Severity ranks a DrugInteraction from most to least clinically urgent.
type Severity string

const (
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
	SeverityUnknown  Severity = "unknown"
)

// Rank orders severities for deterministic sorting: major first, unknown last.
func (s Severity) Rank() int {
	switch s {
	case SeverityMajor:
		return 0
	case SeverityModerate:
		return 1
	case SeverityMinor:
		return 2
	default:
		return 3
	}
}

// RenalStage is the closed, GFR-threshold-ordered set of renal function bands.
type RenalStage string

const (
	RenalStageNormal   RenalStage = "normal"
	RenalStageMild     RenalStage = "mild"
	RenalStageModerate RenalStage = "moderate"
	RenalStageSevere   RenalStage = "severe"
	RenalStageESRD     RenalStage = "esrd"
)

// HepaticStage is the closed Child-Pugh classification.
type HepaticStage string

const (
	HepaticStageNone       HepaticStage = "none"
	HepaticStageChildPughA HepaticStage = "child_pugh_a"
	HepaticStageChildPughB HepaticStage = "child_pugh_b"
	HepaticStageChildPughC HepaticStage = "child_pugh_c"
)

// Sex is the closed set of values PatientContext.Sex accepts.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// ImpairmentType distinguishes the two kinds of DosingAdjustment.
type ImpairmentType string

const (
	ImpairmentRenal   ImpairmentType = "renal"
	ImpairmentHepatic ImpairmentType = "hepatic"
)

// ValidationStatus is derived from a ValidationResult, never stored on it.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusWarning ValidationStatus = "warning"
	StatusBlocked ValidationStatus = "blocked"
)

// WebhookEvent is the closed set of well-known event names a subscription
// can filter on; callers may also trigger arbitrary caller-defined names for
// test events, so this type is advisory rather than enforced at Trigger time.
type WebhookEvent string

const (
	EventPrescriptionBlocked   WebhookEvent = "prescription.blocked"
	EventPrescriptionWarning   WebhookEvent = "prescription.warning"
	EventMajorInteraction      WebhookEvent = "interaction.major"
	EventContraindication      WebhookEvent = "contraindication.detected"
	EventDosingAlert           WebhookEvent = "dosing.alert"
	EventSystemHealth          WebhookEvent = "system.health"
	WebhookEventWildcard       WebhookEvent = "*"
)

// WebhookStatus is the closed lifecycle of a WebhookDelivery.
type WebhookStatus string

const (
	WebhookStatusPending  WebhookStatus = "pending"
	WebhookStatusDelivered WebhookStatus = "delivered"
	WebhookStatusFailed   WebhookStatus = "failed"
	WebhookStatusRetrying WebhookStatus = "retrying"
)
