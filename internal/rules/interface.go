package rules

import (
	"context"

	"mlopsaudit/internal/scan"
)

// Check is one audit dimension evaluated against a structure summary.
type Check interface {
	// ID is the category identifier the check reports under (e.g. "ci_cd").
	ID() string
	Title() string
	Description() string

	// Evaluate scores the summary. Checks MUST NOT read the filesystem, mutate the
	// summary, or depend on any other check's outcome.
	Evaluate(ctx context.Context, s *scan.Summary) (Result, error)
}
