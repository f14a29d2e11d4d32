package output

import (
	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	_ "mlopsaudit/internal/rules/checks"
	"mlopsaudit/internal/scan"
)

func gradedRecord() *audit.Record {
	return &audit.Record{
		Source:    "https://github.com/acme/churn",
		Strategy:  audit.StrategyGraded,
		Timestamp: "2026-03-01T10:00:00Z",
		Graded: &audit.Result{
			Scores: map[string]int{
				"structure": 100, "ci_cd": 100, "mlflow": 50, "tests": 0,
				"docker": 0, "versioning": 0, "reproducibility": 100,
			},
			Missing: []string{"mlflow", "tests", "docker", "versioning"},
			Details: map[string]map[string]any{
				"structure":       {"issues": []string{}},
				"ci_cd":           {"has": true},
				"mlflow":          {"yaml": false, "code": true},
				"tests":           {"has": false},
				"docker":          {"has": false},
				"versioning":      {"has": false},
				"reproducibility": {"has_req": true},
			},
			Overall: 50,
		},
	}
}

func weightedRecord() *audit.Record {
	files := map[string][]string{
		"docker": {"Dockerfile"},
		"tests":  {"t1.py", "t2.py", "t3.py", "t4.py", "t5.py", "t6.py"},
	}
	res := audit.DefaultChecklist().Score(map[string]bool{"docker": true, "tests": true}, files)
	// Records decoded from other producers may carry more files than the cap.
	for i := range res.Results {
		if res.Results[i].Key == "tests" {
			res.Results[i].Files = files["tests"]
		}
	}
	return &audit.Record{Source: "acme/churn", Strategy: audit.StrategyWeighted, Weighted: res}
}

func scanRecord() *scan.Record {
	s := scan.NewSummary()
	s.Files = []string{"src/train.py", "Dockerfile"}
	s.Directories = []string{"src"}
	s.TotalFiles, s.TotalDirs = 2, 1
	s.Patterns[scan.CategoryPythonScripts] = []string{"src/train.py"}
	s.Patterns[scan.CategoryDockerFiles] = []string{"Dockerfile"}
	return &scan.Record{RepoURL: "acme/churn", Timestamp: "2026-03-01T10:00:00Z", Structure: s}
}

func passResult() rules.Result {
	return rules.NewResult("docker", 100, map[string]any{"has": true})
}

func partialResult() rules.Result {
	return rules.NewResult("mlflow", 50, map[string]any{"yaml": false, "code": true})
}

func failResult() rules.Result {
	return rules.NewResult("tests", 0, map[string]any{"has": false})
}
