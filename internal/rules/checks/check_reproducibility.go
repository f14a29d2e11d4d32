package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type ReproducibilityCheck struct{}

func (c *ReproducibilityCheck) ID() string {
	return "reproducibility"
}

func (c *ReproducibilityCheck) Title() string {
	return "Pinned Dependencies"
}

func (c *ReproducibilityCheck) Description() string {
	return "Verifies that a requirements.txt file exists anywhere in the repository."
}

func (c *ReproducibilityCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	if err := summaryOrErr(s); err != nil {
		return rules.Result{}, err
	}
	return rules.PresenceResult(c.ID(), "has_req", anyContains(s.Files, "requirements.txt")), nil
}
