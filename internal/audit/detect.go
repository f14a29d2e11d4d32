package audit

import (
	"path"
	"slices"
	"strings"

	"mlopsaudit/internal/scan"
)

// Detector derives checklist detections from a summary.
type Detector interface {
	Detect(s *scan.Summary) (detected map[string]bool, files map[string][]string)
}

// SummaryDetector maps the default checklist keys onto summary buckets and
// file name conventions. It never touches the filesystem.
type SummaryDetector struct{}

var (
	requirementFiles = []string{"requirements.txt", "pyproject.toml", "setup.py", "environment.yml"}
	inferenceHints   = []string{"predict", "infer", "serve", "app"}
	monitoringHints  = []string{"monitor", "prometheus", "evidently"}
)

func (SummaryDetector) Detect(s *scan.Summary) (map[string]bool, map[string][]string) {
	files := map[string][]string{}
	if s == nil {
		return map[string]bool{}, files
	}

	scripts, _ := s.Bucket(scan.CategoryPythonScripts)
	docker, _ := s.Bucket(scan.CategoryDockerFiles)
	configs, _ := s.Bucket(scan.CategoryConfigFiles)
	tests, _ := s.Bucket(scan.CategoryTestFiles)
	data, _ := s.Bucket(scan.CategoryDataFolders)

	files["data"] = data
	files["training"] = filter(scripts, func(p string) bool {
		return strings.Contains(baseLower(p), "train")
	})
	files["inference"] = filter(scripts, func(p string) bool {
		return containsAnyOf(baseLower(p), inferenceHints)
	})
	files["requirements"] = filter(s.Files, func(p string) bool {
		return slices.Contains(requirementFiles, baseLower(p))
	})
	files["docker"] = docker
	files["mlflow"] = filter(s.Files, func(p string) bool {
		b := baseLower(p)
		return b == "mlflow.yaml" || b == "mlflow.yml" ||
			(strings.HasSuffix(b, ".py") && strings.Contains(b, "mlflow"))
	})
	files["tests"] = append(append([]string{}, tests...), filter(scripts, isTestScript)...)
	files["ci_cd"] = filter(s.Files, func(p string) bool {
		b := path.Base(p)
		return strings.HasPrefix(p, ".github/workflows/") || b == ".gitlab-ci.yml" || b == "Jenkinsfile"
	})
	files["monitoring"] = filter(s.Files, func(p string) bool {
		return containsAnyOf(strings.ToLower(p), monitoringHints)
	})
	files["config"] = configs

	detected := make(map[string]bool, len(files))
	for k, v := range files {
		detected[k] = len(v) > 0
	}
	return detected, files
}

func isTestScript(p string) bool {
	if strings.HasPrefix(baseLower(p), "test_") {
		return true
	}
	return strings.Contains(strings.ToLower(path.Dir(p)), "test")
}

func baseLower(p string) string {
	return strings.ToLower(path.Base(p))
}

func containsAnyOf(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func filter(paths []string, keep func(string) bool) []string {
	out := []string{}
	for _, p := range paths {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
