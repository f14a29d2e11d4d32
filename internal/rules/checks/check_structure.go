package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

const (
	penaltyNoDataFolder = 30
	penaltyNoModelFiles = 30
	penaltyNoSrcDir     = 40
)

type StructureCheck struct{}

func (c *StructureCheck) ID() string {
	return "structure"
}

func (c *StructureCheck) Title() string {
	return "Project Layout"
}

func (c *StructureCheck) Description() string {
	return "Verifies the repository has a data folder, at least one model artifact and a src directory. Starts at 100 and deducts 30 for no data folder, 30 for no model files and 40 for no src directory."
}

func (c *StructureCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	dataFolders, err := bucket(s, scan.CategoryDataFolders)
	if err != nil {
		return rules.Result{}, err
	}
	modelFiles, err := bucket(s, scan.CategoryModelFiles)
	if err != nil {
		return rules.Result{}, err
	}

	issues := []string{}
	score := rules.MaxScore
	if len(dataFolders) == 0 {
		issues = append(issues, "no data folder")
		score -= penaltyNoDataFolder
	}
	if len(modelFiles) == 0 {
		issues = append(issues, "no model artifacts")
		score -= penaltyNoModelFiles
	}
	if !anyContains(s.Directories, "src") {
		issues = append(issues, "no src/")
		score -= penaltyNoSrcDir
	}
	return rules.NewResult(c.ID(), score, map[string]any{"issues": issues}), nil
}
