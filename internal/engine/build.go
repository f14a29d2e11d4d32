package engine

import (
	"context"
	"fmt"
	"io"

	"mlopsaudit/internal/acquire"
	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/config"
	gh "mlopsaudit/internal/github"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
	"mlopsaudit/internal/store"
)

// StrategyFor builds the audit strategy the Audit section selects. A check
// selector narrows the graded suite.
func StrategyFor(a config.Audit) (audit.Strategy, error) {
	if a.Strategy == audit.StrategyGraded && a.Checks != "" {
		checks, err := rules.Resolve(a.Checks)
		if err != nil {
			return nil, err
		}
		return audit.NewAggregator(checks...), nil
	}
	return audit.NewStrategy(a.Strategy)
}

// FromConfig wires an Engine from a validated config. log receives progress
// and verbose GitHub traffic; nil discards it. The caller closes the Engine.
func FromConfig(ctx context.Context, cfg *config.Config, log io.Writer) (*Engine, error) {
	if log == nil {
		log = io.Discard
	}

	strategy, err := StrategyFor(cfg.Audit)
	if err != nil {
		return nil, err
	}

	acq := &acquire.Acquirer{Git: acquire.GitCLI{}, Log: log}

	// Anonymous access still works for public repositories.
	token, source, err := gh.ResolveAuthToken(ctx, cfg.Source.GitHubToken)
	if err != nil {
		fmt.Fprintf(log, "Warning: failed to resolve GitHub auth token: %v\n", err)
	}
	if cfg.Runtime.Verbose && token != "" {
		fmt.Fprintf(log, "[verbose] github: token from %s\n", source)
	}
	opts := []gh.Option{gh.WithVerbose(cfg.Runtime.Verbose, log)}
	if cfg.Source.GitHubAPIURL != "" {
		opts = append(opts, gh.WithBaseURL(cfg.Source.GitHubAPIURL))
	}
	client, err := gh.NewClient(ctx, token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	acq.GitHub = client

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	return NewEngine(acq, st, strategy, scan.Options{Ignore: cfg.Scan.Ignore}), nil
}
