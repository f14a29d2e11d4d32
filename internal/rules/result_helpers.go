package rules

// NewResult clamps score into [0, MaxScore] and never returns a nil Detail.
func NewResult(category string, score int, detail map[string]any) Result {
	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}
	if detail == nil {
		detail = map[string]any{}
	}
	return Result{Category: category, Score: score, Detail: detail}
}

// PresenceResult is the all-or-nothing result used by most checks.
func PresenceResult(category string, key string, present bool) Result {
	score := 0
	if present {
		score = MaxScore
	}
	return NewResult(category, score, map[string]any{key: present})
}
