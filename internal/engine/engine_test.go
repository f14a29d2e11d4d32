package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mlopsaudit/internal/acquire"
	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/config"
	"mlopsaudit/internal/output"
	"mlopsaudit/internal/rules"
	_ "mlopsaudit/internal/rules/checks"
	"mlopsaudit/internal/scan"
	"mlopsaudit/internal/store"
)

var completeTree = []string{
	"data/train.csv",
	"models/model.pkl",
	"src/train.py",
	".github/workflows/ci.yml",
	"mlflow.yaml",
	"tests/fixtures.txt",
	"Dockerfile",
	"dvc.yaml",
	"requirements.txt",
}

func writeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "repo")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

func newTestEngine(t *testing.T, strategy audit.Strategy) (*Engine, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "outputs")
	return NewEngine(&acquire.Acquirer{}, store.NewFileStore(out), strategy, scan.Options{Ignore: []string{".git"}}), out
}

func testConfig(target string) *config.Config {
	cfg := config.New()
	cfg.Source.Target = target
	cfg.Output.NoConsole = true
	cfg.Runtime.Timeout = time.Minute
	return cfg
}

func TestEngine_Scan_LocalDirectory(t *testing.T) {
	repo := writeTree(t, completeTree...)
	eng, out := newTestEngine(t, nil)

	sc, err := eng.Scan(context.Background(), repo, "")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if sc.Name != "repo" {
		t.Fatalf("Name = %q, want repo", sc.Name)
	}
	if want := filepath.Join(out, store.ScanReportFile); sc.Ref != want {
		t.Fatalf("Ref = %q, want %q", sc.Ref, want)
	}
	if sc.Record.RepoURL != repo {
		t.Fatalf("RepoURL = %q, want %q", sc.Record.RepoURL, repo)
	}
	if sc.Record.Structure.TotalFiles != len(completeTree) {
		t.Fatalf("TotalFiles = %d, want %d", sc.Record.Structure.TotalFiles, len(completeTree))
	}
	if _, err := os.Stat(sc.Ref); err != nil {
		t.Fatalf("scan report not written: %v", err)
	}
	if _, err := os.Stat(repo); err != nil {
		t.Fatalf("local source must survive the scan: %v", err)
	}
}

func TestEngine_Scan_InvalidSource(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	_, err := eng.Scan(context.Background(), "definitely not a repo", "")
	if !errors.Is(err, acquire.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestEngine_Audit_CompleteRepository(t *testing.T) {
	repo := writeTree(t, completeTree...)
	eng, out := newTestEngine(t, audit.NewAggregator())

	var seen []string
	res, err := eng.Audit(context.Background(), repo, "", func(item any) {
		if r, ok := item.(rules.Result); ok {
			seen = append(seen, r.Category)
		}
	})
	if err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}

	if res.Audit.Graded.Overall != 100 {
		t.Fatalf("Overall = %d, want 100 (scores %v)", res.Audit.Graded.Overall, res.Audit.Graded.Scores)
	}
	if !res.Audit.Complete() {
		t.Fatalf("expected nothing missing, got %v", res.Audit.Missing())
	}
	if res.Audit.Source != repo {
		t.Fatalf("Source = %q, want %q", res.Audit.Source, repo)
	}
	want := []string{"structure", "ci_cd", "mlflow", "tests", "docker", "versioning", "reproducibility"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("observed %v, want %v", seen, want)
	}
	if res.AuditRef != filepath.Join(out, store.AuditReportFile) {
		t.Fatalf("AuditRef = %q", res.AuditRef)
	}
}

func TestEngine_AuditScan_FromStoredRecord(t *testing.T) {
	repo := writeTree(t, "Dockerfile", "train.py")
	eng, _ := newTestEngine(t, audit.DefaultChecklist())

	sc, err := eng.Scan(context.Background(), repo, "")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if err := os.RemoveAll(repo); err != nil {
		t.Fatalf("remove repo: %v", err)
	}

	res, err := eng.AuditScan(context.Background(), sc.Ref, nil)
	if err != nil {
		t.Fatalf("AuditScan returned error: %v", err)
	}
	if res.Audit.Strategy != audit.StrategyWeighted || res.Audit.Weighted == nil {
		t.Fatalf("expected a weighted record, got %+v", res.Audit)
	}
	if res.Name != "repo" {
		t.Fatalf("Name = %q, want repo", res.Name)
	}

	loaded, err := eng.LoadAudit(context.Background(), res.AuditRef)
	if err != nil {
		t.Fatalf("LoadAudit returned error: %v", err)
	}
	if loaded.Weighted.TotalScore != res.Audit.Weighted.TotalScore {
		t.Fatalf("stored record mismatch: %d vs %d", loaded.Weighted.TotalScore, res.Audit.Weighted.TotalScore)
	}
}

func TestEngine_AuditScan_MissingRecord(t *testing.T) {
	eng, out := newTestEngine(t, nil)
	_, err := eng.AuditScan(context.Background(), filepath.Join(out, "nope.json"), nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestEngine_AuditWithoutStore(t *testing.T) {
	repo := writeTree(t, "Dockerfile")
	eng := NewEngine(nil, nil, nil, scan.Options{})

	res, err := eng.Audit(context.Background(), repo, "", nil)
	if err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}
	if res.Ref != "" || res.AuditRef != "" {
		t.Fatalf("expected no refs without a store, got %q %q", res.Ref, res.AuditRef)
	}
	if _, err := eng.AuditScan(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error auditing a stored scan without a store")
	}
}

func TestEngine_Run_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) *config.Config
		want int
	}{
		{
			name: "complete",
			cfg:  func(t *testing.T) *config.Config { return testConfig(writeTree(t, completeTree...)) },
			want: 0,
		},
		{
			name: "missing_components",
			cfg:  func(t *testing.T) *config.Config { return testConfig(writeTree(t, "README.md")) },
			want: 1,
		},
		{
			name: "scan_mode_ignores_missing",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(writeTree(t, "README.md"))
				cfg.Runtime.Mode = config.ModeScan
				return cfg
			},
			want: 0,
		},
		{
			name: "no_target",
			cfg:  func(t *testing.T) *config.Config { return testConfig("") },
			want: 3,
		},
		{
			name: "unknown_target",
			cfg:  func(t *testing.T) *config.Config { return testConfig(filepath.Join(t.TempDir(), "gone", "x y")) },
			want: 3,
		},
		{
			name: "unknown_scan_ref",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig("")
				cfg.Source.ScanRef = filepath.Join(t.TempDir(), "missing.json")
				return cfg
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _ := newTestEngine(t, nil)
			var stdout, stderr bytes.Buffer
			if got := eng.run(context.Background(), tt.cfg(t), &stdout, &stderr); got != tt.want {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", got, tt.want, stderr.String())
			}
		})
	}
}

func TestEngine_Run_NoConsole(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	cfg := testConfig(writeTree(t, completeTree...))

	var stdout, stderr bytes.Buffer
	_ = eng.run(context.Background(), cfg, &stdout, &stderr)

	if out := strings.TrimSpace(stdout.String() + stderr.String()); out != "" {
		t.Errorf("expected no console output when NoConsole is true; got:\n%s", out)
	}
}

func TestEngine_Run_Console_Default(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	cfg := testConfig(writeTree(t, "Dockerfile"))
	cfg.Output.NoConsole = false

	var stdout, stderr bytes.Buffer
	code := eng.run(context.Background(), cfg, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	out := stdout.String()
	for _, want := range []string{"docker: 100/100", "Overall score: 14/100", "Missing components: structure, ci_cd"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr.String(), "Auditing ") {
		t.Errorf("expected progress on stderr, got %q", stderr.String())
	}
}

func TestEngine_Run_ScanMode_Console(t *testing.T) {
	eng, out := newTestEngine(t, nil)
	cfg := testConfig(writeTree(t, completeTree...))
	cfg.Output.NoConsole = false
	cfg.Runtime.Mode = config.ModeScan

	var stdout, stderr bytes.Buffer
	if code := eng.run(context.Background(), cfg, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Scan report -> "+filepath.Join(out, store.ScanReportFile)) {
		t.Fatalf("expected scan report path in console output:\n%s", stdout.String())
	}
}

func TestEngine_Run_NDJSON_LifecycleEvents(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	cfg := testConfig(writeTree(t, completeTree...))
	cfg.Output.Out = filepath.Join(t.TempDir(), "events.ndjson")
	cfg.Output.OutFormat = "ndjson"

	var stdout, stderr bytes.Buffer
	if code := eng.run(context.Background(), cfg, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr.String())
	}

	f, err := os.Open(cfg.Output.Out)
	if err != nil {
		t.Fatalf("open events: %v", err)
	}
	defer f.Close()

	var events []output.Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e output.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("invalid ndjson line %q: %v", sc.Text(), err)
		}
		events = append(events, e)
	}

	if len(events) != 9 {
		t.Fatalf("got %d events, want 9: %+v", len(events), events)
	}
	if events[0].Type != output.EventRunStarted || events[0].Strategy != audit.StrategyGraded {
		t.Fatalf("first event = %+v, want run.started for graded", events[0])
	}
	for _, e := range events[1:8] {
		if e.Type != output.EventCheckResult || e.Result == nil {
			t.Fatalf("expected check.result, got %+v", e)
		}
	}
	last := events[8]
	if last.Type != output.EventRunFinished || last.Audit == nil || last.Audit.Graded.Overall != 100 {
		t.Fatalf("last event = %+v, want run.finished with overall 100", last)
	}
	if last.Name != "repo" {
		t.Fatalf("run.finished Name = %q, want repo", last.Name)
	}
}

type failingCheck struct{}

func (failingCheck) ID() string          { return "broken" }
func (failingCheck) Title() string       { return "Broken" }
func (failingCheck) Description() string { return "Always fails." }

func (failingCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	return rules.Result{}, errors.New("bucket missing")
}

func TestEngine_Run_NDJSON_FailedCheckPublishesNoScores(t *testing.T) {
	docker, err := rules.Resolve("docker")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	eng, _ := newTestEngine(t, audit.NewAggregator(docker[0], failingCheck{}))
	cfg := testConfig(writeTree(t, "Dockerfile"))
	cfg.Output.Out = filepath.Join(t.TempDir(), "events.ndjson")
	cfg.Output.OutFormat = "ndjson"

	var stdout, stderr bytes.Buffer
	if code := eng.run(context.Background(), cfg, &stdout, &stderr); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	if !strings.Contains(stderr.String(), "broken") {
		t.Fatalf("expected failing category on stderr, got %q", stderr.String())
	}

	data, err := os.ReadFile(cfg.Output.Out)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var types []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var e output.Event
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid ndjson line %q: %v", line, err)
		}
		types = append(types, e.Type)
	}
	want := []string{output.EventRunStarted, output.EventRunFinished}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("event types = %v, want %v", types, want)
	}
}

func TestEngine_Run_WritesMarkdownReport(t *testing.T) {
	eng, _ := newTestEngine(t, audit.DefaultChecklist())
	cfg := testConfig(writeTree(t, "Dockerfile", "tests/test_model.py"))
	cfg.Audit.Strategy = audit.StrategyWeighted
	cfg.Output.Report = filepath.Join(t.TempDir(), "reports", "audit.md")

	var stdout, stderr bytes.Buffer
	if code := eng.run(context.Background(), cfg, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	b, err := os.ReadFile(cfg.Output.Report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{"# MLOps Audit Report: repo", "weighted", "Dockerfile"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestStrategyFor(t *testing.T) {
	s, err := StrategyFor(config.Audit{Strategy: audit.StrategyGraded, Checks: "tests, docker"})
	if err != nil {
		t.Fatalf("StrategyFor returned error: %v", err)
	}
	agg, ok := s.(*audit.Aggregator)
	if !ok {
		t.Fatalf("expected *audit.Aggregator, got %T", s)
	}
	var ids []string
	for _, c := range agg.Checks() {
		ids = append(ids, c.ID())
	}
	if strings.Join(ids, ",") != "tests,docker" {
		t.Fatalf("selected checks = %v, want registry order [tests docker]", ids)
	}

	if _, err := StrategyFor(config.Audit{Strategy: audit.StrategyGraded, Checks: "nope"}); err == nil {
		t.Fatalf("expected error for unknown check")
	}

	s, err = StrategyFor(config.Audit{Strategy: audit.StrategyWeighted})
	if err != nil || s.Name() != audit.StrategyWeighted {
		t.Fatalf("StrategyFor(weighted) = %v, %v", s, err)
	}
}

func TestFromConfig_LocalAudit(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")
	cfg := config.New()
	cfg.Store.Dir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	eng, err := FromConfig(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig returned error: %v", err)
	}
	defer eng.Close()

	if eng.Acquirer == nil || eng.Acquirer.GitHub == nil {
		t.Fatalf("expected an acquirer with a GitHub client")
	}
	res, err := eng.Audit(context.Background(), writeTree(t, "Dockerfile"), "", nil)
	if err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}
	if res.AuditRef != filepath.Join(cfg.Store.Dir, store.AuditReportFile) {
		t.Fatalf("AuditRef = %q", res.AuditRef)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "https://github.com/acme/churn-model.git", want: "churn-model"},
		{in: "git@gitlab.com:acme/fraud.git", want: "fraud"},
		{in: "/tmp/work/repo/", want: "repo"},
		{in: `C:\work\repo`, want: "repo"},
		{in: "", want: "repository"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
