package audit

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"mlopsaudit/internal/scan"
)

// MaxExampleFiles caps the example paths carried by each checklist item.
const MaxExampleFiles = 5

//go:embed checklist.yaml
var defaultChecklistYAML []byte

// ChecklistEntry is one weighted check of the checklist table.
type ChecklistEntry struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// ChecklistItem is the scored form of a ChecklistEntry.
type ChecklistItem struct {
	Key    string   `json:"key"`
	Check  string   `json:"check"`
	Passed bool     `json:"passed"`
	Score  int      `json:"score"`
	Weight int      `json:"weight"`
	Files  []string `json:"files"`
}

// ChecklistResult is the weighted audit outcome.
type ChecklistResult struct {
	TotalScore int             `json:"total_score"`
	MaxScore   int             `json:"max_score"`
	Percentage float64         `json:"percentage"`
	Results    []ChecklistItem `json:"results"`
}

// Checklist scores externally detected booleans against fixed weights.
type Checklist struct {
	entries  []ChecklistEntry
	detector Detector
}

type checklistFile struct {
	Checks []ChecklistEntry `yaml:"checks"`
}

// ParseChecklist reads a checklist table. Keys must be unique and weights
// positive.
func ParseChecklist(data []byte) (*Checklist, error) {
	var f checklistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse checklist: %w", err)
	}
	if len(f.Checks) == 0 {
		return nil, fmt.Errorf("parse checklist: no checks defined")
	}
	seen := make(map[string]struct{}, len(f.Checks))
	for i, e := range f.Checks {
		if e.Key == "" {
			return nil, fmt.Errorf("parse checklist: entry %d has no key", i)
		}
		if _, dup := seen[e.Key]; dup {
			return nil, fmt.Errorf("parse checklist: duplicate key %q", e.Key)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("parse checklist: %s: weight must be positive, got %d", e.Key, e.Weight)
		}
		if e.Name == "" {
			f.Checks[i].Name = e.Key
		}
		seen[e.Key] = struct{}{}
	}
	return &Checklist{entries: f.Checks, detector: SummaryDetector{}}, nil
}

// DefaultChecklist returns the built-in ten-check table.
func DefaultChecklist() *Checklist {
	c, err := ParseChecklist(defaultChecklistYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// WithDetector returns a copy of c that derives detections with d.
func (c *Checklist) WithDetector(d Detector) *Checklist {
	cp := *c
	cp.detector = d
	return &cp
}

func (c *Checklist) Name() string {
	return StrategyWeighted
}

func (c *Checklist) Entries() []ChecklistEntry {
	return append([]ChecklistEntry(nil), c.entries...)
}

func (c *Checklist) MaxScore() int {
	total := 0
	for _, e := range c.entries {
		total += e.Weight
	}
	return total
}

// Score is pure. Absent keys count as not detected and carry no files.
func (c *Checklist) Score(detected map[string]bool, files map[string][]string) *ChecklistResult {
	res := &ChecklistResult{
		MaxScore: c.MaxScore(),
		Results:  make([]ChecklistItem, 0, len(c.entries)),
	}
	for _, e := range c.entries {
		res.Results = append(res.Results, c.item(e, detected, files))
		res.TotalScore += res.Results[len(res.Results)-1].Score
	}
	if res.MaxScore > 0 {
		res.Percentage = round2(float64(res.TotalScore) / float64(res.MaxScore) * 100)
	}
	return res
}

func (c *Checklist) item(e ChecklistEntry, detected map[string]bool, files map[string][]string) ChecklistItem {
	passed := detected[e.Key]
	score := 0
	if passed {
		score = e.Weight
	}
	return ChecklistItem{
		Key:    e.Key,
		Check:  e.Name,
		Passed: passed,
		Score:  score,
		Weight: e.Weight,
		Files:  limitFiles(files[e.Key], MaxExampleFiles),
	}
}

func (c *Checklist) Evaluate(ctx context.Context, s *scan.Summary, observe Observer) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detector := c.detector
	if detector == nil {
		detector = SummaryDetector{}
	}
	detected, files := detector.Detect(s)
	res := c.Score(detected, files)
	for _, item := range res.Results {
		notify(observe, item)
	}
	return &Record{
		Strategy:  StrategyWeighted,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Weighted:  res,
	}, nil
}

func limitFiles(files []string, n int) []string {
	if len(files) > n {
		files = files[:n]
	}
	return append([]string{}, files...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
