package lca

// Grade is the sustainability letter derived from a circularity score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// GradeFor maps a circularity score to its grade.
func GradeFor(score float64) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	default:
		return GradeD
	}
}
