package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

// Scripts that merely mention mlflow earn partial credit.
const mlflowCodeOnlyScore = 50

type MLflowCheck struct{}

func (c *MLflowCheck) ID() string {
	return "mlflow"
}

func (c *MLflowCheck) Title() string {
	return "Experiment Tracking"
}

func (c *MLflowCheck) Description() string {
	return "Scores 100 when an mlflow.yaml file exists, 50 when only a Python script path mentions mlflow, otherwise 0."
}

func (c *MLflowCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	scripts, err := bucket(s, scan.CategoryPythonScripts)
	if err != nil {
		return rules.Result{}, err
	}

	yamlOK := anyContains(s.Files, "mlflow.yaml")
	codeOK := anyContains(scripts, "mlflow")

	score := 0
	switch {
	case yamlOK:
		score = rules.MaxScore
	case codeOK:
		score = mlflowCodeOnlyScore
	}
	return rules.NewResult(c.ID(), score, map[string]any{"yaml": yamlOK, "code": codeOK}), nil
}
