package audit

import (
	"context"
	"errors"
	"time"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

// Result is the graded audit outcome.
type Result struct {
	Scores  map[string]int            `json:"scores"`
	Missing []string                  `json:"missing_components"`
	Details map[string]map[string]any `json:"details"`
	Overall int                       `json:"overall_score"`
}

// Aggregator runs a fixed list of checks over a summary and combines their
// scores into a graded Result.
type Aggregator struct {
	checks []rules.Check
}

// NewAggregator builds an aggregator over checks. With no arguments it uses
// every registered check in registration order.
func NewAggregator(checks ...rules.Check) *Aggregator {
	if len(checks) == 0 {
		checks = rules.List()
	}
	return &Aggregator{checks: checks}
}

func (a *Aggregator) Name() string {
	return StrategyGraded
}

// Checks returns the checks in evaluation order.
func (a *Aggregator) Checks() []rules.Check {
	return append([]rules.Check(nil), a.checks...)
}

// Run evaluates every check in order. The first failing check aborts the run
// with a *CheckEvaluationError; no partial result is returned and observe is
// never called. Results reach observe in evaluation order once all checks pass.
func (a *Aggregator) Run(ctx context.Context, s *scan.Summary, observe Observer) (*Result, error) {
	if len(a.checks) == 0 {
		return nil, errors.New("no checks registered")
	}

	res := &Result{
		Scores:  make(map[string]int, len(a.checks)),
		Missing: []string{},
		Details: make(map[string]map[string]any, len(a.checks)),
	}
	total := 0
	scored := make([]rules.Result, 0, len(a.checks))
	for _, c := range a.checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := c.Evaluate(ctx, s)
		if err != nil {
			return nil, &CheckEvaluationError{Category: c.ID(), Err: err}
		}
		res.Scores[r.Category] = r.Score
		res.Details[r.Category] = r.Detail
		if !r.Complete() {
			res.Missing = append(res.Missing, r.Category)
		}
		total += r.Score
		scored = append(scored, r)
	}
	res.Overall = total / len(a.checks)
	for _, r := range scored {
		notify(observe, r)
	}
	return res, nil
}

func (a *Aggregator) Evaluate(ctx context.Context, s *scan.Summary, observe Observer) (*Record, error) {
	res, err := a.Run(ctx, s, observe)
	if err != nil {
		return nil, err
	}
	return &Record{
		Strategy:  StrategyGraded,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Graded:    res,
	}, nil
}
