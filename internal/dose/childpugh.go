package dose

// AscitesGrade and EncephalopathyGrade are the closed ordinal inputs to the
// Child-Pugh score. They are not domain-wide enums because they only ever
// appear in this one calculation.
type AscitesGrade string

const (
	AscitesNone            AscitesGrade = "none"
	AscitesMild            AscitesGrade = "mild"
	AscitesModerateSevere  AscitesGrade = "moderate_severe"
)

type EncephalopathyGrade string

const (
	EncephalopathyNone     EncephalopathyGrade = "none"
	EncephalopathyGrade1To2 EncephalopathyGrade = "grade_1_2"
	EncephalopathyGrade3To4 EncephalopathyGrade = "grade_3_4"
)

// ChildPughClass is the letter grade derived from the total score.
type ChildPughClass string

const (
	ChildPughA ChildPughClass = "A"
	ChildPughB ChildPughClass = "B"
	ChildPughC ChildPughClass = "C"
)

func bilirubinPoints(bilirubin float64) int {
	switch {
	case bilirubin < 2:
		return 1
	case bilirubin <= 3:
		return 2
	default:
		return 3
	}
}

func albuminPoints(albumin float64) int {
	switch {
	case albumin > 3.5:
		return 1
	case albumin >= 2.8:
		return 2
	default:
		return 3
	}
}

func inrPoints(inr float64) int {
	switch {
	case inr < 1.7:
		return 1
	case inr <= 2.3:
		return 2
	default:
		return 3
	}
}

func ascitesPoints(grade AscitesGrade) int {
	switch grade {
	case AscitesNone:
		return 1
	case AscitesMild:
		return 2
	default:
		return 3
	}
}

func encephalopathyPoints(grade EncephalopathyGrade) int {
	switch grade {
	case EncephalopathyNone:
		return 1
	case EncephalopathyGrade1To2:
		return 2
	default:
		return 3
	}
}

// ChildPughScore computes the total score (5-15) and its letter class.
// Grounded on ChildPughCalculator.calculate_score.
func ChildPughScore(bilirubin, albumin, inr float64, ascites AscitesGrade, encephalopathy EncephalopathyGrade) (int, ChildPughClass) {
	total := bilirubinPoints(bilirubin) + albuminPoints(albumin) + inrPoints(inr) +
		ascitesPoints(ascites) + encephalopathyPoints(encephalopathy)

	var class ChildPughClass
	switch {
	case total <= 6:
		class = ChildPughA
	case total <= 9:
		class = ChildPughB
	default:
		class = ChildPughC
	}

	return total, class
}
