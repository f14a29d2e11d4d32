package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// viper config binding. Keeping these as constants helps avoid drift between
// Cobra flag wiring and the config file keys.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Source.Branch, flags.FlagBranch, "", "...")
//	arg := "--" + flags.FlagBranch
const (
	// Source
	FlagBranch       = "branch"
	FlagFromScan     = "from-scan"
	FlagFromAudit    = "from-audit"
	FlagGitHubToken  = "github-token"
	FlagGitHubAPIURL = "github-api-url"

	// Scan
	FlagIgnore = "ignore"

	// Audit
	FlagStrategy = "strategy"
	FlagChecks   = "checks"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Store
	FlagStore      = "store"
	FlagOutputDir  = "output-dir"
	FlagDSN        = "dsn"
	FlagS3Endpoint = "s3-endpoint"
	FlagS3Region   = "s3-region"
	FlagS3Bucket   = "s3-bucket"
	FlagS3UseSSL   = "s3-use-ssl"

	// LLM
	FlagModel       = "model"
	FlagTemperature = "temperature"
	FlagFixDir      = "fix-dir"

	// Server
	FlagAddr            = "addr"
	FlagShutdownTimeout = "shutdown-timeout"
	FlagAllowLocal      = "allow-local"

	// Runtime
	FlagTimeout = "timeout"
	FlagVerbose = "verbose"
	FlagConfig  = "config"
)

// Config keys that are read from the config file or MLOPSAUDIT_* env vars but
// never from the command line, so secrets stay out of shell history.
const (
	KeyGitHubToken  = FlagGitHubToken
	KeyGeminiAPIKey = "gemini-api-key"
	KeyS3AccessKey  = "s3-access-key"
	KeyS3SecretKey  = "s3-secret-key"
)
