package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/store"
)

const (
	ModeScan  = "scan"
	ModeAudit = "audit"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli (one file per command)
	// - viper keys in internal/cli/root.go:bindConfig
	Source  Source
	Scan    Scan
	Audit   Audit
	Output  Output
	Store   Store
	LLM     LLM
	Server  Server
	Runtime Runtime
}

type Source struct {
	// Target is a local directory, OWNER/REPO, or a git URL (positional argument).
	Target string

	// Branch to check out (see --branch). Empty means the repository default;
	// an explicit "main" that does not exist falls back to "master".
	Branch string

	// ScanRef audits a stored scan record instead of acquiring Target (see --from-scan).
	ScanRef string

	// AuditRef names a stored audit record for report and fix (see --from-audit).
	AuditRef string

	// GitHubToken overrides GITHUB_TOKEN / GH_TOKEN / gh auth (see --github-token).
	GitHubToken string

	// GitHubAPIURL points the client at GitHub Enterprise (see --github-api-url).
	GitHubAPIURL string
}

type Scan struct {
	// Ignore lists directory base names pruned from the walk (see --ignore).
	// Values may be provided as repeated flags and/or comma-separated lists.
	Ignore []string
}

type Audit struct {
	// Strategy selects the scorer (see --strategy).
	// Allowed values: graded, weighted.
	Strategy string

	// Checks is a check selector for the graded strategy (see --checks).
	// Empty means the whole suite.
	Checks string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by result status (see --console-filter-status).
	// Allowed values: PASS, PARTIAL, FAIL.
	ConsoleFilterStatus []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink and progress lines (see --no-console).
	NoConsole bool
}

type Store struct {
	// Backend selects where records are kept (see --store).
	// Allowed values: file, sqlite, postgres, mysql, s3.
	Backend string

	// Dir is the output directory of the file backend (see --output-dir).
	Dir string

	// DSN is the database connection string (see --dsn). For sqlite it is a path.
	DSN string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
}

type LLM struct {
	// APIKey for the Gemini API. Usually GEMINI_API_KEY from the environment or .env.
	APIKey string

	// Model name (see --model).
	Model string

	// Temperature for generation (see --temperature). Must be within [0, 2].
	Temperature float32

	// OutDir receives generated files (see --fix-dir).
	OutDir string
}

type Server struct {
	// Addr is the listen address of `serve` (see --addr).
	Addr string

	// ShutdownTimeout bounds graceful shutdown (see --shutdown-timeout).
	ShutdownTimeout time.Duration
}

type Runtime struct {
	// Mode selects what Run does: scan, or scan followed by audit.
	Mode string

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables detailed diagnostics (every GitHub API call).
	Verbose bool
}

func New() *Config {
	return &Config{
		Scan: Scan{
			Ignore: []string{".git"},
		},
		Audit: Audit{
			Strategy: audit.StrategyGraded,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Store: Store{
			Backend:  string(store.BackendFile),
			Dir:      "outputs",
			S3Bucket: "mlopsaudit",
			S3Region: "us-east-1",
		},
		LLM: LLM{
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
			OutDir:      "fixes",
		},
		Server: Server{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Runtime: Runtime{
			Mode:    ModeAudit,
			Timeout: 10 * time.Minute,
		},
	}
}

// Validate normalizes list and enum inputs and rejects invalid combinations.
// It does not require a target: commands that need one check it themselves.
func (c *Config) Validate() error {
	c.Scan.Ignore = splitCommaList(c.Scan.Ignore)
	c.Source.Target = strings.TrimSpace(c.Source.Target)
	c.Source.Branch = strings.TrimSpace(c.Source.Branch)

	if c.Source.Target != "" && c.Source.ScanRef != "" {
		return errors.New("a target and --from-scan are mutually exclusive")
	}

	// Mode validation
	c.Runtime.Mode = normalizeEnumValue(c.Runtime.Mode)
	if c.Runtime.Mode == "" {
		c.Runtime.Mode = ModeAudit
	}
	if c.Runtime.Mode != ModeScan && c.Runtime.Mode != ModeAudit {
		return fmt.Errorf("unsupported mode: %s (must be one of: scan, audit)", c.Runtime.Mode)
	}

	// Audit validation
	c.Audit.Strategy = normalizeEnumValue(c.Audit.Strategy)
	if c.Audit.Strategy == "" {
		c.Audit.Strategy = audit.StrategyGraded
	}
	if c.Audit.Strategy != audit.StrategyGraded && c.Audit.Strategy != audit.StrategyWeighted {
		return fmt.Errorf("unsupported --strategy: %s (must be one of: graded, weighted)", c.Audit.Strategy)
	}
	if c.Audit.Checks != "" && c.Audit.Strategy != audit.StrategyGraded {
		return errors.New("--checks only applies to the graded strategy")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	c.Output.Emit = splitCommaList(c.Output.Emit)
	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", v)
		}
		c.Output.Emit[i] = v
	}

	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)
	for i, st := range c.Output.ConsoleFilterStatus {
		v := strings.ToUpper(st)
		if v != "PASS" && v != "PARTIAL" && v != "FAIL" {
			return fmt.Errorf("unsupported --console-filter-status value: %s (must be one of: PASS, PARTIAL, FAIL)", st)
		}
		c.Output.ConsoleFilterStatus[i] = v
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Store validation
	backend, err := store.ParseBackend(c.Store.Backend)
	if err != nil {
		return fmt.Errorf("invalid --store value: %w", err)
	}
	c.Store.Backend = string(backend)
	switch backend {
	case store.BackendPostgres, store.BackendMySQL:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("--dsn is required for the %s store", backend)
		}
	case store.BackendS3:
		if c.Store.S3Endpoint == "" || c.Store.S3Bucket == "" {
			return errors.New("the s3 store needs an endpoint and a bucket")
		}
	}

	// LLM validation
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("--temperature must be within [0, 2], got %g", c.LLM.Temperature)
	}

	// Runtime validation
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("--shutdown-timeout must be > 0")
	}

	return nil
}

// StoreConfig converts the Store section for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend: store.Backend(c.Store.Backend),
		Dir:     c.Store.Dir,
		DSN:     c.Store.DSN,
		S3: store.S3Config{
			Endpoint:  c.Store.S3Endpoint,
			Region:    c.Store.S3Region,
			Bucket:    c.Store.S3Bucket,
			AccessKey: c.Store.S3AccessKey,
			SecretKey: c.Store.S3SecretKey,
			UseSSL:    c.Store.S3UseSSL,
		},
	}
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
