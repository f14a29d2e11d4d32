package cli

import (
	"github.com/spf13/cobra"

	"mlopsaudit/internal/flags"
)

// MAINTAINER NOTE: flag names double as config file keys and MLOPSAUDIT_* env
// var names (dashes become underscores). Renaming a flag renames both.

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Source.Branch, flags.FlagBranch, "", "Branch to check out (default: the repository default; an explicit main falls back to master)")
	cmd.Flags().StringVar(&cfg.Source.GitHubAPIURL, flags.FlagGitHubAPIURL, "", "GitHub REST API base URL (GitHub Enterprise)")
	cmd.Flags().StringSliceVar(&cfg.Scan.Ignore, flags.FlagIgnore, cfg.Scan.Ignore, "Directory names to skip while scanning (repeatable; comma-separated accepted)")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	cmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console output by status (PASS, PARTIAL, FAIL). Comma-separated.")
	cmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	cmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	cmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	cmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	cmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")
	cmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 10m)")
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Store.Backend, flags.FlagStore, cfg.Store.Backend, "Record store: file|sqlite|postgres|mysql|s3 (default: file)")
	cmd.Flags().StringVar(&cfg.Store.Dir, flags.FlagOutputDir, cfg.Store.Dir, "Directory of the file store (default: outputs)")
	cmd.Flags().StringVar(&cfg.Store.DSN, flags.FlagDSN, "", "Database connection string (sqlite: file path, default outputs/mlopsaudit.db)")
	cmd.Flags().StringVar(&cfg.Store.S3Endpoint, flags.FlagS3Endpoint, "", "S3/MinIO endpoint host:port")
	cmd.Flags().StringVar(&cfg.Store.S3Region, flags.FlagS3Region, cfg.Store.S3Region, "S3 region")
	cmd.Flags().StringVar(&cfg.Store.S3Bucket, flags.FlagS3Bucket, cfg.Store.S3Bucket, "S3 bucket (created when missing)")
	cmd.Flags().BoolVar(&cfg.Store.S3UseSSL, flags.FlagS3UseSSL, false, "Use TLS for the S3 endpoint")
}

func addAuditFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Audit.Strategy, flags.FlagStrategy, cfg.Audit.Strategy, "Scoring strategy: graded|weighted (default: graded)")
	cmd.Flags().StringVar(&cfg.Audit.Checks, flags.FlagChecks, "", "Comma-separated check IDs for the graded strategy (empty = all checks)")
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.LLM.Model, flags.FlagModel, cfg.LLM.Model, "Gemini model")
	cmd.Flags().Float32Var(&cfg.LLM.Temperature, flags.FlagTemperature, cfg.LLM.Temperature, "Sampling temperature in [0, 2]")
	cmd.Flags().StringVar(&cfg.LLM.OutDir, flags.FlagFixDir, cfg.LLM.OutDir, "Directory for generated files")
}
