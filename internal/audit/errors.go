package audit

import "fmt"

// CheckEvaluationError reports the check that aborted a graded audit.
type CheckEvaluationError struct {
	Category string
	Err      error
}

func (e *CheckEvaluationError) Error() string {
	return fmt.Sprintf("check %s failed: %v", e.Category, e.Err)
}

func (e *CheckEvaluationError) Unwrap() error {
	return e.Err
}
