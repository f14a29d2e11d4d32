package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type TestsCheck struct{}

func (c *TestsCheck) ID() string {
	return "tests"
}

func (c *TestsCheck) Title() string {
	return "Tests"
}

func (c *TestsCheck) Description() string {
	return "Verifies that at least one file was classified as a test file."
}

func (c *TestsCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	files, err := bucket(s, scan.CategoryTestFiles)
	if err != nil {
		return rules.Result{}, err
	}
	return rules.PresenceResult(c.ID(), "has", len(files) > 0), nil
}
