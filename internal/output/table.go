package output

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

// gradedOrder lists the scored categories in suite order, followed by any
// categories the suite does not know, sorted.
func gradedOrder(res *audit.Result) []string {
	var order []string
	seen := make(map[string]bool, len(res.Scores))
	for _, c := range rules.List() {
		if _, ok := res.Scores[c.ID()]; ok {
			order = append(order, c.ID())
			seen[c.ID()] = true
		}
	}
	var rest []string
	for cat := range res.Scores {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func gradedStatus(score int) rules.Status {
	return rules.Result{Score: score}.Status()
}

func passLabel(passed bool) rules.Status {
	if passed {
		return rules.StatusPass
	}
	return rules.StatusFail
}

// renderAuditTable prints the per-category scores of rec.
func renderAuditTable(w io.Writer, rec *audit.Record) error {
	table := tablewriter.NewWriter(w)
	var data [][]string

	switch {
	case rec.Graded != nil:
		table.Header([]string{"Category", "Score", "Status"})
		for _, cat := range gradedOrder(rec.Graded) {
			score := rec.Graded.Scores[cat]
			data = append(data, []string{cat, strconv.Itoa(score), string(gradedStatus(score))})
		}
	case rec.Weighted != nil:
		table.Header([]string{"Check", "Key", "Score", "Weight", "Status"})
		for _, item := range rec.Weighted.Results {
			data = append(data, []string{
				item.Check,
				item.Key,
				strconv.Itoa(item.Score),
				strconv.Itoa(item.Weight),
				string(passLabel(item.Passed)),
			})
		}
	default:
		return fmt.Errorf("audit record has no results")
	}

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// renderScanTable prints the bucket sizes of a structure summary.
func renderScanTable(w io.Writer, s *scan.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pattern", "Count"})

	var data [][]string
	for _, c := range scan.Categories {
		paths, _ := s.Bucket(c)
		data = append(data, []string{string(c), strconv.Itoa(len(paths))})
	}
	var extra []string
	for c := range s.Patterns {
		if !slices.Contains(scan.Categories, c) {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		data = append(data, []string{c, strconv.Itoa(len(s.Patterns[scan.Category(c)]))})
	}

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
