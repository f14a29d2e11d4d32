package audit

import (
	"context"
	"fmt"
	"strings"

	"mlopsaudit/internal/scan"
)

const (
	StrategyGraded   = "graded"
	StrategyWeighted = "weighted"
)

// Observer receives each scored item of a successful evaluation: a
// rules.Result for the graded strategy, a ChecklistItem for the weighted one.
type Observer func(item any)

// Strategy turns a structure summary into an audit record.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, s *scan.Summary, observe Observer) (*Record, error)
}

// NewStrategy returns the named strategy with its default configuration.
func NewStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyGraded:
		return NewAggregator(), nil
	case StrategyWeighted:
		return DefaultChecklist(), nil
	default:
		return nil, fmt.Errorf("unknown audit strategy %q (want %s or %s)", name, StrategyGraded, StrategyWeighted)
	}
}

func notify(observe Observer, item any) {
	if observe != nil {
		observe(item)
	}
}
