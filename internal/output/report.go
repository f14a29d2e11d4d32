package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/scan"
)

// ReportSink renders the Markdown report of a run on Close. It renders the
// audit record carried by run.finished, or the scan record when the run only
// scanned.
type ReportSink struct {
	path  string
	file  *os.File
	mu    sync.Mutex
	name  string
	audit *audit.Record
	scan  *scan.Record
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return &ReportSink{path: path, file: f}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := v.(Event)
	if !ok {
		return nil
	}
	if e.Name != "" {
		s.name = e.Name
	}
	if e.Type == EventRunFinished {
		if e.Audit != nil {
			s.audit = e.Audit
		}
		if e.Scan != nil {
			s.scan = e.Scan
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch {
	case s.audit != nil:
		err = RenderMarkdown(s.file, s.audit, s.name)
	case s.scan != nil:
		err = RenderScanMarkdown(s.file, s.scan, s.name)
	default:
		_, err = fmt.Fprintln(s.file, "# MLOps Audit Report\n\nThe run finished without producing a record.")
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
