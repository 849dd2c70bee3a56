package ddi

import "pharmaguard/internal/domain"

// rule is one critical drug-pair or drug-class-pair interaction entry.
// Grounded verbatim on CRITICAL_DDI_RULES. slug is the rule's stable
// identifier (e.g. "ssri-tramadol"), carried separately from mechanism and
// clinicalEffect so each can vary independently: mechanism explains the
// pharmacological cause, clinicalEffect the resulting clinical consequence.
type rule struct {
	drug1          string
	drug2          string
	slug           string
	severity       domain.Severity
	mechanism      string
	clinicalEffect string
	management     string
}

var criticalRules = []rule{
	{"warfarin", "aspirin", "warfarin-aspirin", domain.SeverityMajor,
		"Increased bleeding risk due to additive antiplatelet and anticoagulant effects",
		"Elevated INR with risk of major GI or intracranial hemorrhage",
		"Avoid combination or monitor INR closely and watch for bleeding signs"},
	{"warfarin", "nsaid", "warfarin-nsaid", domain.SeverityMajor,
		"NSAIDs inhibit platelet function and increase bleeding risk with anticoagulants",
		"Increased risk of GI ulceration and bleeding",
		"Avoid NSAIDs if possible, use paracetamol for pain relief instead"},
	{"warfarin", "metronidazole", "warfarin-metronidazole", domain.SeverityModerate,
		"Metronidazole inhibits warfarin metabolism (CYP2C9)",
		"Supratherapeutic INR within days of starting metronidazole",
		"Monitor INR closely during and after metronidazole course"},
	{"warfarin", "fluconazole", "warfarin-fluconazole", domain.SeverityMajor,
		"Fluconazole inhibits CYP2C9 and CYP3A4, significantly increasing warfarin levels",
		"Marked INR elevation and bleeding risk within the first week",
		"Reduce warfarin dose by 25-50% and monitor INR closely"},
	{"warfarin", "amiodarone", "warfarin-amiodarone", domain.SeverityMajor,
		"Amiodarone inhibits warfarin metabolism",
		"Progressive INR rise over days to weeks as amiodarone accumulates",
		"Reduce warfarin dose by 30-50% and monitor INR closely"},
	{"ace_inhibitor", "potassium", "ace_inhibitor-potassium", domain.SeverityMajor,
		"Risk of severe hyperkalemia",
		"Cardiac arrhythmia from elevated serum potassium",
		"Monitor serum potassium closely, avoid potassium supplements if possible"},
	{"ace_inhibitor", "spironolactone", "ace_inhibitor-spironolactone", domain.SeverityModerate,
		"Additive hyperkalemia risk",
		"Gradual potassium rise, more pronounced with renal impairment",
		"Monitor potassium levels, especially in renal impairment"},
	{"amiodarone", "fluoroquinolone", "amiodarone-fluoroquinolone", domain.SeverityMajor,
		"Additive QT prolongation risk, potential for torsades de pointes",
		"QTc prolongation with risk of life-threatening ventricular arrhythmia",
		"Avoid combination, use alternative antibiotic if possible"},
	{"clarithromycin", "domperidone", "clarithromycin-domperidone", domain.SeverityMajor,
		"QT prolongation risk",
		"QTc prolongation, particularly in patients with existing cardiac disease",
		"Avoid combination. Use alternative antiemetic."},
	{"erythromycin", "cisapride", "erythromycin-cisapride", domain.SeverityMajor,
		"Severe QT prolongation, risk of fatal arrhythmia",
		"Torsades de pointes and sudden cardiac death",
		"Contraindicated combination."},
	{"ssri", "tramadol", "ssri-tramadol", domain.SeverityMajor,
		"Serotonin syndrome risk due to additive serotonergic effects",
		"Agitation, hyperthermia, and neuromuscular abnormalities of serotonin syndrome",
		"Avoid combination or monitor closely for serotonin syndrome symptoms"},
	{"ssri", "maoi", "ssri-maoi", domain.SeverityMajor,
		"Life-threatening serotonin syndrome",
		"Rapid-onset hyperthermia, rigidity, and autonomic instability",
		"Contraindicated. Require 2-week washout period between agents."},
	{"ssri", "linezolid", "ssri-linezolid", domain.SeverityMajor,
		"Linezolid has MAO inhibitor activity, risk of serotonin syndrome",
		"Confusion, tremor, and hyperthermia developing within hours of co-administration",
		"Avoid if possible, otherwise monitor closely"},
	{"metformin", "iodinated_contrast", "metformin-iodinated_contrast", domain.SeverityMajor,
		"Risk of lactic acidosis",
		"Metabolic acidosis precipitated by contrast-induced renal impairment",
		"Hold metformin 48h before and after contrast administration"},
	{"digoxin", "amiodarone", "digoxin-amiodarone", domain.SeverityMajor,
		"Amiodarone increases digoxin levels by 70-100%",
		"Digoxin toxicity presenting as nausea, visual disturbance, and arrhythmia",
		"Reduce digoxin dose by 50%. Monitor levels."},
	{"digoxin", "verapamil", "digoxin-verapamil", domain.SeverityMajor,
		"Verapamil increases digoxin levels and has additive AV-nodal blocking effect",
		"Symptomatic bradycardia or AV block",
		"Reduce digoxin dose. Monitor for bradycardia."},
	{"digoxin", "clarithromycin", "digoxin-clarithromycin", domain.SeverityModerate,
		"Macrolides increase digoxin levels via P-glycoprotein inhibition",
		"Early signs of digoxin toxicity, notably GI upset and visual changes",
		"Monitor digoxin levels and for toxicity signs."},
	{"simvastatin", "clarithromycin", "simvastatin-clarithromycin", domain.SeverityMajor,
		"Risk of rhabdomyolysis due to CYP3A4 inhibition",
		"Muscle pain, weakness, and elevated creatine kinase",
		"Use alternative statin or hold simvastatin during macrolide course"},
	{"simvastatin", "itraconazole", "simvastatin-itraconazole", domain.SeverityMajor,
		"Severe myopathy risk",
		"Severe myopathy progressing to rhabdomyolysis and acute kidney injury",
		"Contraindicated combination."},
	{"atorvastatin", "clarithromycin", "atorvastatin-clarithromycin", domain.SeverityModerate,
		"Increased statin exposure via CYP3A4 inhibition",
		"Mild to moderate myalgia with elevated creatine kinase",
		"Limit atorvastatin to 20mg daily during macrolide course"},
	{"theophylline", "ciprofloxacin", "theophylline-ciprofloxacin", domain.SeverityMajor,
		"Ciprofloxacin inhibits theophylline metabolism",
		"Theophylline toxicity: nausea, tachycardia, and seizure risk",
		"Reduce theophylline dose by 30-50% and monitor levels"},
	{"theophylline", "erythromycin", "theophylline-erythromycin", domain.SeverityModerate,
		"Macrolides increase theophylline levels",
		"Nausea and tremor from elevated theophylline concentration",
		"Monitor theophylline levels."},
	{"lithium", "nsaid", "lithium-nsaid", domain.SeverityMajor,
		"NSAIDs reduce lithium clearance, risk of lithium toxicity",
		"Tremor, ataxia, and confusion from elevated lithium levels",
		"Avoid if possible, otherwise monitor lithium levels closely"},
	{"lithium", "ace_inhibitor", "lithium-ace_inhibitor", domain.SeverityMajor,
		"ACE inhibitors reduce lithium clearance",
		"Progressive lithium accumulation and neurotoxicity",
		"Monitor lithium levels closely, especially after dose changes"},
	{"lithium", "diuretic", "lithium-diuretic", domain.SeverityModerate,
		"Thiazides and loop diuretics can increase lithium levels",
		"Lithium toxicity following volume depletion from diuresis",
		"Monitor lithium levels closely after diuretic initiation"},
	{"methotrexate", "nsaid", "methotrexate-nsaid", domain.SeverityMajor,
		"NSAIDs reduce methotrexate clearance, risk of toxicity",
		"Bone marrow suppression and mucositis from methotrexate accumulation",
		"Avoid combination with high-dose MTX, caution with low-dose"},
	{"methotrexate", "trimethoprim", "methotrexate-trimethoprim", domain.SeverityMajor,
		"Additive antifolate effects, risk of bone marrow suppression",
		"Pancytopenia from combined antifolate toxicity",
		"Avoid combination if possible, otherwise monitor blood counts"},
	{"opioid", "benzodiazepine", "opioid-benzodiazepine", domain.SeverityMajor,
		"Additive CNS and respiratory depression",
		"Sedation progressing to respiratory depression and arrest",
		"Avoid combination if possible, otherwise use lowest effective doses"},
	{"opioid", "maoi", "opioid-maoi", domain.SeverityMajor,
		"Risk of serotonin syndrome and respiratory depression",
		"Hyperpyrexia, agitation, and cardiovascular collapse",
		"Avoid meperidine and tramadol with MAOIs entirely"},
	{"sulfonylurea", "fluconazole", "sulfonylurea-fluconazole", domain.SeverityModerate,
		"Fluconazole inhibits sulfonylurea metabolism, risk of hypoglycemia",
		"Prolonged or severe hypoglycemic episodes",
		"Monitor blood glucose closely during antifungal course"},
}

// ruleIndex maps an unordered (key1, key2) identifier pair to the rules that
// apply to it. Both directions of every rule are indexed so lookup doesn't
// care which side of the pair presented which identifier.
type ruleIndex map[[2]string][]rule

func buildRuleIndex() ruleIndex {
	idx := make(ruleIndex)
	for _, r := range criticalRules {
		idx[[2]string{r.drug1, r.drug2}] = append(idx[[2]string{r.drug1, r.drug2}], r)
		idx[[2]string{r.drug2, r.drug1}] = append(idx[[2]string{r.drug2, r.drug1}], r)
	}
	return idx
}
