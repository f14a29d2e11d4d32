package checks

import (
	"fmt"
	"strings"

	"mlopsaudit/internal/scan"
)

func bucket(s *scan.Summary, c scan.Category) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("summary is nil")
	}
	paths, ok := s.Bucket(c)
	if !ok {
		return nil, fmt.Errorf("summary has no %s bucket", c)
	}
	return paths, nil
}

func anyContains(paths []string, sub string) bool {
	for _, p := range paths {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}

func summaryOrErr(s *scan.Summary) error {
	if s == nil {
		return fmt.Errorf("summary is nil")
	}
	return nil
}
