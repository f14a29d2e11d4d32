package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

// MaxReportFiles caps the example files listed per checklist item.
const MaxReportFiles = audit.MaxExampleFiles

// RenderMarkdown writes the human-readable audit report for rec.
func RenderMarkdown(w io.Writer, rec *audit.Record, name string) error {
	if rec == nil || (rec.Graded == nil && rec.Weighted == nil) {
		return fmt.Errorf("audit record has no results")
	}
	if name == "" {
		name = "repository"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# MLOps Audit Report: %s\n\n", escapeMD(name))
	if rec.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", escapeMD(rec.Source))
	}
	fmt.Fprintf(&b, "- **Strategy:** %s\n", rec.Strategy)
	if rec.Timestamp != "" {
		fmt.Fprintf(&b, "- **Generated:** %s\n", rec.Timestamp)
	}

	if rec.Graded != nil {
		writeGradedMarkdown(&b, rec.Graded)
	} else {
		writeWeightedMarkdown(&b, rec.Weighted)
	}

	b.WriteString("\n## Missing Components\n\n")
	missing := rec.Missing()
	if len(missing) == 0 {
		b.WriteString("None. Every component is in place.\n")
	}
	for _, m := range missing {
		fmt.Fprintf(&b, "- %s\n", m)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeGradedMarkdown(b *strings.Builder, res *audit.Result) {
	fmt.Fprintf(b, "- **Overall score:** %d/%d\n", res.Overall, rules.MaxScore)

	order := gradedOrder(res)
	b.WriteString("\n## Scores\n\n")
	b.WriteString("| Category | Score | Status |\n")
	b.WriteString("|---|---:|---|\n")
	for _, cat := range order {
		score := res.Scores[cat]
		fmt.Fprintf(b, "| %s | %d | %s |\n", cat, score, gradedStatus(score))
	}

	b.WriteString("\n## Details\n")
	for _, cat := range order {
		fmt.Fprintf(b, "\n### %s\n\n", cat)
		detail := res.Details[cat]
		if len(detail) == 0 {
			b.WriteString("_No details._\n")
			continue
		}
		keys := make([]string, 0, len(detail))
		for k := range detail {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "- %s: %s\n", k, formatDetail(detail[k]))
		}
	}
}

func writeWeightedMarkdown(b *strings.Builder, res *audit.ChecklistResult) {
	fmt.Fprintf(b, "- **Overall score:** %.2f%% (%d/%d)\n", res.Percentage, res.TotalScore, res.MaxScore)

	b.WriteString("\n## Checklist\n\n")
	b.WriteString("| Check | Status | Score | Weight |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, item := range res.Results {
		fmt.Fprintf(b, "| %s | %s | %d | %d |\n", escapeMD(item.Check), passLabel(item.Passed), item.Score, item.Weight)
	}

	b.WriteString("\n## Evidence\n")
	for _, item := range res.Results {
		fmt.Fprintf(b, "\n### %s\n\n", escapeMD(item.Check))
		files := item.Files
		if len(files) > MaxReportFiles {
			files = files[:MaxReportFiles]
		}
		if len(files) == 0 {
			b.WriteString("_No files found._\n")
			continue
		}
		for _, f := range files {
			fmt.Fprintf(b, "- `%s`\n", f)
		}
	}
}

// RenderScanMarkdown writes a short structure report for a scan record.
func RenderScanMarkdown(w io.Writer, rec *scan.Record, name string) error {
	if rec == nil || rec.Structure == nil {
		return fmt.Errorf("scan record has no structure")
	}
	if name == "" {
		name = "repository"
	}
	s := rec.Structure

	var b strings.Builder
	fmt.Fprintf(&b, "# MLOps Scan Report: %s\n\n", escapeMD(name))
	if rec.RepoURL != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", escapeMD(rec.RepoURL))
	}
	fmt.Fprintf(&b, "- **Scanned:** %s\n", rec.Timestamp)
	fmt.Fprintf(&b, "- **Files:** %d\n- **Directories:** %d\n", s.TotalFiles, s.TotalDirs)

	b.WriteString("\n## Patterns\n\n")
	b.WriteString("| Pattern | Count |\n|---|---:|\n")
	for _, c := range scan.Categories {
		paths, _ := s.Bucket(c)
		fmt.Fprintf(&b, "| %s | %d |\n", c, len(paths))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatDetail(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case []string:
		if len(t) == 0 {
			return "none"
		}
		return escapeMD(strings.Join(t, ", "))
	case []any:
		if len(t) == 0 {
			return "none"
		}
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = fmt.Sprint(p)
		}
		return escapeMD(strings.Join(parts, ", "))
	case nil:
		return "none"
	default:
		return escapeMD(fmt.Sprint(t))
	}
}

var mdEscaper = strings.NewReplacer("|", "\\|", "\n", " ", "\r", "")

func escapeMD(s string) string {
	return mdEscaper.Replace(s)
}
