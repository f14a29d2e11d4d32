package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type CICDCheck struct{}

func (c *CICDCheck) ID() string {
	return "ci_cd"
}

func (c *CICDCheck) Title() string {
	return "CI/CD Workflows"
}

func (c *CICDCheck) Description() string {
	return "Verifies that a GitHub Actions workflow directory (.github/workflows) exists."
}

func (c *CICDCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	if err := summaryOrErr(s); err != nil {
		return rules.Result{}, err
	}
	return rules.PresenceResult(c.ID(), "has", anyContains(s.Directories, ".github/workflows")), nil
}
