package audit

// Record is the durable audit artifact. Exactly one of Graded and Weighted is
// set, matching Strategy.
type Record struct {
	Source    string           `json:"source"`
	Strategy  string           `json:"strategy"`
	Timestamp string           `json:"audit_timestamp"`
	Graded    *Result          `json:"graded,omitempty"`
	Weighted  *ChecklistResult `json:"weighted,omitempty"`
}

// Missing lists the categories that did not pass, in evaluation order.
func (r *Record) Missing() []string {
	switch {
	case r == nil:
		return nil
	case r.Graded != nil:
		return append([]string{}, r.Graded.Missing...)
	case r.Weighted != nil:
		missing := []string{}
		for _, item := range r.Weighted.Results {
			if !item.Passed {
				missing = append(missing, item.Key)
			}
		}
		return missing
	}
	return nil
}

// Score is the overall score on a 0..100 scale.
func (r *Record) Score() float64 {
	switch {
	case r == nil:
		return 0
	case r.Graded != nil:
		return float64(r.Graded.Overall)
	case r.Weighted != nil:
		return r.Weighted.Percentage
	}
	return 0
}

// Complete reports whether nothing is missing.
func (r *Record) Complete() bool {
	return len(r.Missing()) == 0
}
