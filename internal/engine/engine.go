package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"mlopsaudit/internal/acquire"
	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/config"
	"mlopsaudit/internal/output"
	"mlopsaudit/internal/scan"
	"mlopsaudit/internal/store"
)

func exitCodeForRun(fatal, missing bool) int {
	// Exit code contract:
	// 0 = run complete, nothing missing
	// 1 = missing components detected
	// 3 = fatal error (no record produced)
	if fatal {
		return 3
	}
	if missing {
		return 1
	}
	return 0
}

// ScanOutcome is a stored scan record and where it was stored.
type ScanOutcome struct {
	Name   string
	Record *scan.Record
	Ref    string
}

// AuditOutcome is a stored audit record plus the scan it was derived from.
type AuditOutcome struct {
	ScanOutcome
	Audit    *audit.Record
	AuditRef string
}

// Engine runs the scan and audit pipeline: acquire a working tree, scan it,
// score it, persist the records.
type Engine struct {
	Acquirer    *acquire.Acquirer
	Store       store.Store
	Strategy    audit.Strategy
	ScanOptions scan.Options
}

func NewEngine(acq *acquire.Acquirer, st store.Store, strategy audit.Strategy, opts scan.Options) *Engine {
	return &Engine{
		Acquirer:    acq,
		Store:       st,
		Strategy:    strategy,
		ScanOptions: opts,
	}
}

// Close releases the store.
func (e *Engine) Close() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

// Scan acquires target at branch, scans it and stores the scan record. The
// workspace is released before Scan returns.
func (e *Engine) Scan(ctx context.Context, target, branch string) (*ScanOutcome, error) {
	src, err := acquire.ParseSource(target)
	if err != nil {
		return nil, err
	}

	acq := e.Acquirer
	if acq == nil {
		acq = &acquire.Acquirer{}
	}
	ws, err := acq.Acquire(ctx, src, branch)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	sum, err := scan.Scan(ws.Dir, e.ScanOptions)
	if err != nil {
		return nil, err
	}
	rec := scan.NewRecord(sourceLabel(src), sum)

	out := &ScanOutcome{Name: src.Name(), Record: rec}
	if e.Store != nil {
		ref, err := e.Store.PutScan(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("store scan record: %w", err)
		}
		out.Ref = ref
	}
	return out, nil
}

// Audit scans target and scores the result with the engine's strategy.
// observe receives each scored item as it is produced.
func (e *Engine) Audit(ctx context.Context, target, branch string, observe audit.Observer) (*AuditOutcome, error) {
	sc, err := e.Scan(ctx, target, branch)
	if err != nil {
		return nil, err
	}
	return e.audit(ctx, sc, observe)
}

// AuditScan scores a previously stored scan record. An empty ref selects the
// backend's default record.
func (e *Engine) AuditScan(ctx context.Context, scanRef string, observe audit.Observer) (*AuditOutcome, error) {
	if e.Store == nil {
		return nil, errors.New("no record store configured")
	}
	rec, err := e.Store.GetScan(ctx, scanRef)
	if err != nil {
		return nil, fmt.Errorf("load scan record %q: %w", scanRef, err)
	}
	return e.audit(ctx, &ScanOutcome{Name: DisplayName(rec.RepoURL), Record: rec, Ref: scanRef}, observe)
}

// LoadAudit returns a stored audit record.
func (e *Engine) LoadAudit(ctx context.Context, ref string) (*audit.Record, error) {
	if e.Store == nil {
		return nil, errors.New("no record store configured")
	}
	rec, err := e.Store.GetAudit(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load audit record %q: %w", ref, err)
	}
	return rec, nil
}

func (e *Engine) audit(ctx context.Context, sc *ScanOutcome, observe audit.Observer) (*AuditOutcome, error) {
	strategy := e.Strategy
	if strategy == nil {
		strategy = audit.NewAggregator()
	}
	rec, err := strategy.Evaluate(ctx, sc.Record.Structure, observe)
	if err != nil {
		return nil, err
	}
	rec.Source = sc.Record.RepoURL

	out := &AuditOutcome{ScanOutcome: *sc, Audit: rec}
	if e.Store != nil {
		ref, err := e.Store.PutAudit(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("store audit record: %w", err)
		}
		out.AuditRef = ref
	}
	return out, nil
}

// sourceLabel is the repo_url written to scan records: the URL for remote
// sources, the absolute path for local ones.
func sourceLabel(src acquire.Source) string {
	if src.Kind == acquire.KindLocal {
		return src.Path
	}
	return src.URL
}

// DisplayName derives a short report title from a repo_url or path.
func DisplayName(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(strings.ReplaceAll(repoURL, "\\", "/"), "/"), ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "repository"
	}
	return path.Clean(trimmed)
}

func setupOutputManager(cfg *config.Config, stdout, stderr io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// Run executes one CLI run described by cfg and returns the process exit
// code. Progress goes to stderr unless the console is disabled.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	return e.run(ctx, cfg, os.Stdout, os.Stderr)
}

func (e *Engine) run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	progress := stderr
	if cfg.Output.NoConsole {
		progress = io.Discard
	}

	if cfg.Source.Target == "" && (cfg.Runtime.Mode == config.ModeScan || cfg.Source.ScanRef == "") {
		fmt.Fprintln(stderr, "Error: a repository path or URL is required")
		return exitCodeForRun(true, false)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	outMgr, err := setupOutputManager(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false)
	}
	defer outMgr.Close()

	observe := func(item any) { _ = outMgr.Write(item) }

	if cfg.Runtime.Mode == config.ModeScan {
		_ = outMgr.Write(output.Event{Type: output.EventRunStarted, Source: cfg.Source.Target})
		fmt.Fprintf(progress, "Scanning %s...\n", cfg.Source.Target)
		sc, err := e.Scan(ctx, cfg.Source.Target, cfg.Source.Branch)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			_ = outMgr.Write(output.Event{Type: output.EventRunFinished, ExitCode: exitCodeForRun(true, false)})
			return exitCodeForRun(true, false)
		}
		_ = outMgr.Write(output.Event{
			Type:   output.EventRunFinished,
			Name:   sc.Name,
			Source: sc.Record.RepoURL,
			Scan:   sc.Record,
			Ref:    sc.Ref,
		})
		return exitCodeForRun(false, false)
	}

	strategy := cfg.Audit.Strategy
	if e.Strategy != nil {
		strategy = e.Strategy.Name()
	}

	var res *AuditOutcome
	if cfg.Source.ScanRef != "" {
		_ = outMgr.Write(output.Event{Type: output.EventRunStarted, Source: cfg.Source.ScanRef, Strategy: strategy})
		fmt.Fprintf(progress, "Auditing stored scan %s...\n", cfg.Source.ScanRef)
		res, err = e.AuditScan(ctx, cfg.Source.ScanRef, observe)
	} else {
		_ = outMgr.Write(output.Event{Type: output.EventRunStarted, Source: cfg.Source.Target, Strategy: strategy})
		fmt.Fprintf(progress, "Auditing %s...\n", cfg.Source.Target)
		res, err = e.Audit(ctx, cfg.Source.Target, cfg.Source.Branch, observe)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		_ = outMgr.Write(output.Event{Type: output.EventRunFinished, ExitCode: exitCodeForRun(true, false)})
		return exitCodeForRun(true, false)
	}

	code := exitCodeForRun(false, !res.Audit.Complete())
	_ = outMgr.Write(output.Event{
		Type:     output.EventRunFinished,
		Name:     res.Name,
		Source:   res.Audit.Source,
		Strategy: res.Audit.Strategy,
		Audit:    res.Audit,
		Ref:      res.AuditRef,
		ExitCode: code,
	})
	if res.AuditRef != "" {
		fmt.Fprintf(progress, "Audit report -> %s\n", res.AuditRef)
	}
	return code
}

// WithStrategy returns a copy of e that scores with strategy.
func (e *Engine) WithStrategy(strategy audit.Strategy) *Engine {
	c := *e
	c.Strategy = strategy
	return &c
}
