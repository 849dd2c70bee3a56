package catalog

// brandToGeneric maps common regional brand names to their generic
// ingredient (or "a/b" for a fixed-dose combination). Grounded verbatim on
// EgyptianDrugDatabase.BRAND_TO_GENERIC.
var brandToGeneric = map[string]string{
	"panadol":   "paracetamol",
	"cataflam":  "diclofenac",
	"augmentin": "amoxicillin/clavulanate",
	"flagyl":    "metronidazole",
	"voltaren":  "diclofenac",
	"aspocid":   "aspirin",
	"brufen":    "ibuprofen",
	"amoxil":    "amoxicillin",
	"zithromax": "azithromycin",
	"glucophage": "metformin",
	"lasix":     "furosemide",
	"lipitor":   "atorvastatin",
	"nexium":    "esomeprazole",
	"januvia":   "sitagliptin",
	"janumet":   "sitagliptin/metformin",
	"concor":    "bisoprolol",
	"plavix":    "clopidogrel",
	"coversyl":  "perindopril",
	"adalat":    "nifedipine",
	"lanoxin":   "digoxin",
	"synthroid": "levothyroxine",
	"eltroxin":  "levothyroxine",
	"ventolin":  "salbutamol",
	"seretide":  "fluticasone/salmeterol",
	"symbicort": "budesonide/formoterol",
	"klacid":    "clarithromycin",
	"ciprobay":  "ciprofloxacin",
	"tavanic":   "levofloxacin",
	"zocor":     "simvastatin",
	"crestor":   "rosuvastatin",
	"cordarone": "amiodarone",
	"zestril":   "lisinopril",
	"tritace":   "ramipril",
	"aldactone": "spironolactone",
	"cipralex":  "escitalopram",
	"prozac":    "fluoxetine",
	"xanax":     "alprazolam",
	"tegretol":  "carbamazepine",
	"neurontin": "gabapentin",
	"amaryl":    "glimepiride",
	"daonil":    "glyburide",
	"diflucan":  "fluconazole",
	"sporanox":  "itraconazole",
	"motilium":  "domperidone",
}

// highAlertDrugs names medications that carry heightened risk of harm when
// used in error, per SPEC_FULL.md §4.2 / original_source's HIGH_ALERT_DRUGS.
var highAlertDrugs = []string{
	"warfarin", "heparin", "insulin", "digoxin", "methotrexate",
	"morphine", "fentanyl", "potassium", "magnesium sulfate",
	"epinephrine", "norepinephrine", "dopamine", "amiodarone",
	"lidocaine", "propofol", "ketamine", "rocuronium",
	"chemotherapy", "opioid",
}
