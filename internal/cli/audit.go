package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/config"
	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/flags"
)

const auditHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	Local directories need no credentials. GitHub repositories are downloaded
	as tarballs through the GitHub API; private repositories need a token.

	Token sources (in order):
	1) MLOPSAUDIT_GITHUB_TOKEN or github-token in .mlopsaudit.yaml
	2) GITHUB_TOKEN, then GH_TOKEN environment variables
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

	Other git hosts are cloned with the git CLI, which uses its own credentials.

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    mlopsaudit audit acme/churn-model

    # Windows PowerShell
    $env:GITHUB_TOKEN = "<your_token>"
    mlopsaudit audit acme/churn-model

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var auditCmd = &cobra.Command{
	Use:   "audit [repository]",
	Short: "Score a repository for MLOps completeness",
	Long: `Scan a repository and score it for MLOps completeness.

The repository is a local directory, OWNER/REPO, a github.com URL, or any git
URL. Remote repositories are fetched into a temporary directory that is removed
when the audit finishes. With --from-scan, a stored scan record is audited
instead and nothing is fetched.

Strategies:
	graded    seven checks scored 0-100; overall is the floored average
	weighted  ten weighted checks; overall is the percentage of the total weight

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write the audit record (json) or the event stream (ndjson) to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown report
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, check.result, checklist.item, run.finished). The
	run.finished event carries the audit record.

Exit codes:
	0 = every component present
	1 = missing components detected
	3 = fatal error (audit did not run)

Examples:
	mlopsaudit audit .
	mlopsaudit audit https://github.com/acme/churn-model --branch dev
	mlopsaudit audit --from-scan outputs/scan_report.json --strategy weighted

	# AI Agent: stream machine-readable events to stdout
	mlopsaudit audit acme/churn-model --no-console --emit ndjson
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		if len(args) == 1 {
			cfg.Source.Target = args[0]
		}
		cfg.Runtime.Mode = config.ModeAudit
		os.Exit(runEngine(cmd.Context(), cfg))
	},
}

// runEngine validates cfg, wires the engine and runs it.
func runEngine(ctx context.Context, c *config.Config) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	var log io.Writer = os.Stderr
	if c.Output.NoConsole {
		log = io.Discard
	}
	eng, err := engine.FromConfig(ctx, c, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}
	defer eng.Close()
	return eng.Run(ctx, c)
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.SetHelpTemplate(auditHelpTemplate)

	addSourceFlags(auditCmd)
	auditCmd.Flags().StringVar(&cfg.Source.ScanRef, flags.FlagFromScan, "", "Audit a stored scan record (file path, row id, or object key) instead of a repository")
	addAuditFlags(auditCmd)
	addOutputFlags(auditCmd)
	addStoreFlags(auditCmd)
}
