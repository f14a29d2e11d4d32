package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"mlopsaudit/internal/store"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Scan.Ignore, []string{".git"}) {
		t.Fatalf("Scan.Ignore = %v, want [.git]", cfg.Scan.Ignore)
	}
	if cfg.Audit.Strategy != "graded" {
		t.Fatalf("Audit.Strategy = %q, want graded", cfg.Audit.Strategy)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Dir != "outputs" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Runtime.Mode != ModeAudit {
		t.Fatalf("Runtime.Mode = %q, want %q", cfg.Runtime.Mode, ModeAudit)
	}
}

func TestValidate_NormalizesCommaDelimitedLists(t *testing.T) {
	cfg := New()
	cfg.Scan.Ignore = []string{".git, node_modules", "venv", ",,"}
	cfg.Output.Emit = []string{"JSON, ndjson"}
	cfg.Output.ConsoleFilterStatus = []string{"fail,partial"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if want := []string{".git", "node_modules", "venv"}; !reflect.DeepEqual(cfg.Scan.Ignore, want) {
		t.Fatalf("Ignore normalized mismatch: got %v want %v", cfg.Scan.Ignore, want)
	}
	if want := []string{"json", "ndjson"}; !reflect.DeepEqual(cfg.Output.Emit, want) {
		t.Fatalf("Emit normalized mismatch: got %v want %v", cfg.Output.Emit, want)
	}
	if want := []string{"FAIL", "PARTIAL"}; !reflect.DeepEqual(cfg.Output.ConsoleFilterStatus, want) {
		t.Fatalf("ConsoleFilterStatus normalized mismatch: got %v want %v", cfg.Output.ConsoleFilterStatus, want)
	}
}

func TestValidate_Enums(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "strategy_weighted", mutate: func(c *Config) { c.Audit.Strategy = " Weighted " }},
		{name: "strategy_empty_defaults", mutate: func(c *Config) { c.Audit.Strategy = "" }},
		{name: "strategy_unknown", mutate: func(c *Config) { c.Audit.Strategy = "fuzzy" }, wantErr: "--strategy"},
		{name: "checks_need_graded", mutate: func(c *Config) { c.Audit.Strategy = "weighted"; c.Audit.Checks = "docker" }, wantErr: "--checks"},
		{name: "console_format_empty", mutate: func(c *Config) { c.Output.ConsoleFormat = " " }, wantErr: "--console-format"},
		{name: "console_format_unknown", mutate: func(c *Config) { c.Output.ConsoleFormat = "xml" }, wantErr: "--console-format"},
		{name: "emit_unknown", mutate: func(c *Config) { c.Output.Emit = []string{"yaml"} }, wantErr: "--emit"},
		{name: "filter_unknown", mutate: func(c *Config) { c.Output.ConsoleFilterStatus = []string{"ERROR"} }, wantErr: "--console-filter-status"},
		{name: "mode_unknown", mutate: func(c *Config) { c.Runtime.Mode = "fix" }, wantErr: "mode"},
		{name: "store_unknown", mutate: func(c *Config) { c.Store.Backend = "redis" }, wantErr: "--store"},
		{name: "postgres_needs_dsn", mutate: func(c *Config) { c.Store.Backend = "pg" }, wantErr: "--dsn"},
		{name: "s3_needs_endpoint", mutate: func(c *Config) { c.Store.Backend = "s3" }, wantErr: "endpoint"},
		{name: "temperature_range", mutate: func(c *Config) { c.LLM.Temperature = 2.5 }, wantErr: "--temperature"},
		{name: "timeout_positive", mutate: func(c *Config) { c.Runtime.Timeout = 0 }, wantErr: "--timeout"},
		{name: "shutdown_positive", mutate: func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, wantErr: "--shutdown-timeout"},
		{name: "target_and_scan_ref", mutate: func(c *Config) { c.Source.Target = "."; c.Source.ScanRef = "x" }, wantErr: "--from-scan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() returned error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesStoreAlias(t *testing.T) {
	cfg := New()
	cfg.Store.Backend = "PostgreSQL"
	cfg.Store.DSN = "postgres://localhost/audit"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Store.Backend != "postgres" {
		t.Fatalf("Store.Backend = %q, want postgres", cfg.Store.Backend)
	}
}

func TestValidate_InfersOutFormat(t *testing.T) {
	tests := []struct {
		out     string
		format  string
		want    string
		wantErr bool
	}{
		{out: "audit.json", want: "json"},
		{out: "events.NDJSON", want: "ndjson"},
		{out: "audit.txt", wantErr: true},
		{out: "audit", wantErr: true},
		{out: "audit", format: "ndjson", want: "ndjson"},
		{out: "audit.json", format: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.out+"_"+tt.format, func(t *testing.T) {
			cfg := New()
			cfg.Output.Out = tt.out
			cfg.Output.OutFormat = tt.format
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() returned error: %v", err)
			}
			if cfg.Output.OutFormat != tt.want {
				t.Fatalf("OutFormat = %q, want %q", cfg.Output.OutFormat, tt.want)
			}
		})
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := New()
	cfg.Store.Backend = "s3"
	cfg.Store.S3Endpoint = "localhost:9000"
	cfg.Store.S3AccessKey = "minio"
	cfg.Store.S3SecretKey = "minio123"

	got := cfg.StoreConfig()
	if got.Backend != store.BackendS3 {
		t.Fatalf("Backend = %q, want s3", got.Backend)
	}
	if got.S3.Endpoint != "localhost:9000" || got.S3.Bucket != "mlopsaudit" || got.S3.AccessKey != "minio" {
		t.Fatalf("unexpected S3 config: %+v", got.S3)
	}
	if got.Dir != "outputs" {
		t.Fatalf("Dir = %q, want outputs", got.Dir)
	}
}
