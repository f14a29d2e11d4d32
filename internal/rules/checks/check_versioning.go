package checks

import (
	"context"
	"slices"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type VersioningCheck struct{}

func (c *VersioningCheck) ID() string {
	return "versioning"
}

func (c *VersioningCheck) Title() string {
	return "Data Versioning"
}

func (c *VersioningCheck) Description() string {
	return "Verifies that DVC is configured: the file list contains .dvc or dvc.yaml at the repository root."
}

func (c *VersioningCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	if err := summaryOrErr(s); err != nil {
		return rules.Result{}, err
	}
	has := slices.Contains(s.Files, ".dvc") || slices.Contains(s.Files, "dvc.yaml")
	return rules.PresenceResult(c.ID(), "has", has), nil
}
