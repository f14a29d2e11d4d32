package rules

type Status string

const (
	StatusPass    Status = "PASS"
	StatusPartial Status = "PARTIAL"
	StatusFail    Status = "FAIL"
)

// MaxScore is the score of a complete category.
const MaxScore = 100

type Result struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	// Detail holds check-specific sub-findings (issue lists, boolean flags).
	Detail map[string]any `json:"detail"`
}

// Status buckets the score for display.
func (r Result) Status() Status {
	switch {
	case r.Score >= MaxScore:
		return StatusPass
	case r.Score > 0:
		return StatusPartial
	default:
		return StatusFail
	}
}

// Complete reports whether the category reached MaxScore.
func (r Result) Complete() bool {
	return r.Score >= MaxScore
}
