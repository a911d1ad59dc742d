package model

// NumGrades is the number of modified Rankin Scale grades (0..5).
const NumGrades = 6

const (
	SexFemale = 0
	SexMale   = 1
)

// Patient is the immutable input of a projection. MRS is the patient's own
// discharge grade; the pipeline still projects every grade for comparison.
type Patient struct {
	Age float64 `json:"age"`
	Sex int     `json:"sex"`
	MRS int     `json:"mrs"`
}

// Grades returns 0..NumGrades-1.
func Grades() []int {
	g := make([]int, NumGrades)
	for i := range g {
		g[i] = i
	}
	return g
}
