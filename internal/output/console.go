package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	agg             aggregate
	allowedStatuses map[string]bool
}

var statusColors = map[string]*color.Color{
	string(rules.StatusPass):    color.New(color.FgGreen),
	string(rules.StatusPartial): color.New(color.FgYellow),
	string(rules.StatusFail):    color.New(color.FgRed),
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{writer: w, format: format}
	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[strings.ToUpper(strings.TrimSpace(st))] = true
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.allowedStatuses) > 0 {
		if st, ok := statusOf(v); ok && !s.allowedStatuses[st] {
			return nil
		}
	}

	switch s.format {
	case "json":
		s.agg.collect(v)
		return nil
	case "ndjson":
		return writeEventLine(s.writer, v)
	case "text":
		if err := s.writeText(v); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(v any) error {
	switch t := v.(type) {
	case rules.Result:
		_, err := fmt.Fprintf(s.writer, "[%s] %s: %d/%d\n", paintStatus(string(t.Status())), t.Category, t.Score, rules.MaxScore)
		return err
	case audit.ChecklistItem:
		st, _ := statusOf(t)
		_, err := fmt.Fprintf(s.writer, "[%s] %s (%s): %d/%d\n", paintStatus(st), t.Check, t.Key, t.Score, t.Weight)
		return err
	case Event:
		if t.Type != EventRunFinished {
			return nil
		}
		switch {
		case t.Audit != nil:
			return s.writeAuditSummary(t.Audit)
		case t.Scan != nil:
			return s.writeScanSummary(t.Scan, t.Ref)
		}
	}
	return nil
}

func (s *ConsoleSink) writeAuditSummary(rec *audit.Record) error {
	fmt.Fprintln(s.writer)
	if err := renderAuditTable(s.writer, rec); err != nil {
		return err
	}
	bold := color.New(color.Bold)
	if rec.Weighted != nil {
		bold.Fprintf(s.writer, "Overall score: %.2f%% (%d/%d)\n", rec.Weighted.Percentage, rec.Weighted.TotalScore, rec.Weighted.MaxScore)
	} else {
		bold.Fprintf(s.writer, "Overall score: %d/%d\n", rec.Graded.Overall, rules.MaxScore)
	}
	missing := rec.Missing()
	if len(missing) == 0 {
		_, err := fmt.Fprintln(s.writer, "Missing components: none")
		return err
	}
	_, err := fmt.Fprintf(s.writer, "Missing components: %s\n", strings.Join(missing, ", "))
	return err
}

func (s *ConsoleSink) writeScanSummary(rec *scan.Record, ref string) error {
	if rec.Structure == nil {
		return nil
	}
	if err := renderScanTable(s.writer, rec.Structure); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "%d files, %d directories\n", rec.Structure.TotalFiles, rec.Structure.TotalDirs); err != nil {
		return err
	}
	if ref != "" {
		_, err := fmt.Fprintf(s.writer, "Scan report -> %s\n", ref)
		return err
	}
	return nil
}

func paintStatus(st string) string {
	if c, ok := statusColors[st]; ok {
		return c.Sprint(st)
	}
	return st
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		return s.agg.encode(s.writer)
	case "text", "ndjson":
		return nil
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}
