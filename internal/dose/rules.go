package dose

import "pharmaguard/internal/domain"

// adjustment is one (dose text, notes text) entry for a drug at a given
// renal stage.
type adjustment struct {
	dose  string
	notes string
}

// renalRules maps a drug key to its per-stage adjustment. Grounded
// verbatim on RENAL_DOSING_RULES.
var renalRules = map[string]map[domain.RenalStage]adjustment{
	"amoxicillin": {
		domain.RenalStageModerate: {"250-500mg q12h", "Extend interval"},
		domain.RenalStageSevere:   {"250-500mg q24h", "Once daily dosing"},
		domain.RenalStageESRD:     {"250-500mg q24h + post-HD dose", "Dialyzable - give after HD"},
	},
	"ciprofloxacin": {
		domain.RenalStageModerate: {"250-500mg q12h", "Reduce dose or extend interval"},
		domain.RenalStageSevere:   {"250-500mg q18-24h", "Significant reduction needed"},
		domain.RenalStageESRD:     {"250-500mg q24h", "Give after dialysis"},
	},
	"levofloxacin": {
		domain.RenalStageModerate: {"250-500mg q24h", "Standard interval, may reduce dose"},
		domain.RenalStageSevere:   {"250mg q24-48h", "Reduce dose and extend interval"},
		domain.RenalStageESRD:     {"250mg q48h", "Post-dialysis dosing"},
	},
	"gentamicin": {
		domain.RenalStageMild:     {"Use traditional dosing with monitoring", "Monitor levels closely"},
		domain.RenalStageModerate: {"Extend interval to q24-36h", "TDM required"},
		domain.RenalStageSevere:   {"Extend interval to q48h", "TDM required - nephrotoxic"},
		domain.RenalStageESRD:     {"Re-dose based on levels after HD", "TDM required"},
	},
	"vancomycin": {
		domain.RenalStageMild:     {"15-20mg/kg q12h", "Monitor trough levels"},
		domain.RenalStageModerate: {"15-20mg/kg q24-48h", "TDM required"},
		domain.RenalStageSevere:   {"15-20mg/kg q48-72h", "TDM required"},
		domain.RenalStageESRD:     {"15-25mg/kg loading, then based on levels", "Give after HD"},
	},
	"metronidazole": {
		domain.RenalStageSevere: {"Reduce dose by 50%", "Active metabolite accumulates"},
		domain.RenalStageESRD:   {"Reduce dose by 50%", "Not dialyzable"},
	},
	"atenolol": {
		domain.RenalStageModerate: {"25-50mg daily", "Reduce dose"},
		domain.RenalStageSevere:   {"25mg daily or every other day", "Significant reduction"},
		domain.RenalStageESRD:     {"25-50mg after HD", "Dialyzable"},
	},
	"digoxin": {
		domain.RenalStageMild:     {"0.125-0.25mg daily", "Monitor levels"},
		domain.RenalStageModerate: {"0.0625-0.125mg daily", "Reduce dose significantly"},
		domain.RenalStageSevere:   {"0.0625mg daily or every other day", "High toxicity risk"},
		domain.RenalStageESRD:     {"0.0625mg 3x/week", "Not dialyzable - very careful dosing"},
	},
	"lisinopril": {
		domain.RenalStageModerate: {"Start 2.5-5mg daily", "Titrate carefully"},
		domain.RenalStageSevere:   {"Start 2.5mg daily", "May accumulate - watch K+"},
		domain.RenalStageESRD:     {"Start 2.5mg daily", "Dialyzable"},
	},
	"spironolactone": {
		domain.RenalStageModerate: {"Use with caution - monitor K+", "Risk of hyperkalemia"},
		domain.RenalStageSevere:   {"Avoid if possible", "High hyperkalemia risk"},
		domain.RenalStageESRD:     {"Contraindicated", "Severe hyperkalemia risk"},
	},
	"morphine": {
		domain.RenalStageModerate: {"Reduce dose by 25-50%", "Active metabolite accumulates"},
		domain.RenalStageSevere:   {"Reduce dose by 50-75%", "Use with extreme caution"},
		domain.RenalStageESRD:     {"Avoid - use fentanyl or hydromorphone", "Metabolite causes toxicity"},
	},
	"gabapentin": {
		domain.RenalStageMild:     {"300-600mg TID", "May need adjustment"},
		domain.RenalStageModerate: {"200-300mg BID", "Reduce dose"},
		domain.RenalStageSevere:   {"100-300mg daily", "Significant reduction"},
		domain.RenalStageESRD:     {"100-300mg post-HD", "Give after dialysis"},
	},
	"nsaid": {
		domain.RenalStageMild:     {"Use lowest effective dose for shortest duration", "Monitor renal function"},
		domain.RenalStageModerate: {"Avoid if possible", "May worsen renal function"},
		domain.RenalStageSevere:   {"Contraindicated", "High risk of AKI"},
		domain.RenalStageESRD:     {"Contraindicated", "No renal benefit, cardiovascular risk remains"},
	},
	"metformin": {
		domain.RenalStageMild:     {"No adjustment needed", "Monitor renal function"},
		domain.RenalStageModerate: {"Max 1000mg daily if GFR 30-45", "Do not start if GFR <45"},
		domain.RenalStageSevere:   {"Contraindicated", "Lactic acidosis risk"},
		domain.RenalStageESRD:     {"Contraindicated", "Lactic acidosis risk"},
	},
	"glyburide": {
		domain.RenalStageModerate: {"Avoid - use glipizide instead", "Active metabolites accumulate"},
		domain.RenalStageSevere:   {"Contraindicated", "Prolonged hypoglycemia risk"},
		domain.RenalStageESRD:     {"Contraindicated", "Use insulin"},
	},
	"sitagliptin": {
		domain.RenalStageModerate: {"50mg daily", "Reduce from 100mg"},
		domain.RenalStageSevere:   {"25mg daily", "Further reduction"},
		domain.RenalStageESRD:     {"25mg daily", "Can be given regardless of HD timing"},
	},
	"enoxaparin": {
		domain.RenalStageSevere: {"1mg/kg once daily for treatment", "Reduce prophylaxis to 30mg daily"},
		domain.RenalStageESRD:   {"Avoid - use UFH", "Unpredictable accumulation"},
	},
	"rivaroxaban": {
		domain.RenalStageModerate: {"15mg daily for AF if GFR 15-50", "Reduce dose"},
		domain.RenalStageSevere:   {"Avoid if GFR <15", "Limited data"},
		domain.RenalStageESRD:     {"Not recommended", "No data on HD patients"},
	},
	"dabigatran": {
		domain.RenalStageModerate: {"110mg BID if GFR 30-50", "Reduce dose"},
		domain.RenalStageSevere:   {"Contraindicated", "GFR <30"},
		domain.RenalStageESRD:     {"Contraindicated", "No data"},
	},
}

// nsaidSubstrings names commercial/generic tokens that resolve to the
// special "nsaid" rule key when no direct drug-key match is found.
var nsaidSubstrings = []string{"ibuprofen", "diclofenac", "naproxen", "brufen", "cataflam", "voltaren"}

// monitoringParams maps a drug key to the lab/clinical values that should be
// tracked during therapy. Grounded on DosingEngine._get_monitoring_params.
var monitoringParams = map[string][]string{
	"gentamicin":     {"Trough and peak levels", "Serum creatinine", "Audiometry if prolonged use"},
	"vancomycin":     {"Trough levels", "Serum creatinine", "CBC"},
	"digoxin":        {"Digoxin level", "Potassium", "ECG"},
	"metformin":      {"Lactic acid if symptomatic", "Serum creatinine", "B12 annually"},
	"enoxaparin":     {"Anti-Xa levels if monitoring needed", "Platelets", "Signs of bleeding"},
	"spironolactone": {"Potassium", "Sodium", "Serum creatinine"},
	"lisinopril":     {"Potassium", "Serum creatinine", "Blood pressure"},
}

var defaultMonitoringParams = []string{"Serum creatinine", "Electrolytes"}
