package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/fix"
	"mlopsaudit/internal/flags"
	"mlopsaudit/internal/scan"
)

var fixCmd = &cobra.Command{
	Use:   "fix [repository]",
	Short: "Draft missing MLOps artifacts with Gemini",
	Long: `Draft the artifacts an audit found missing: a Dockerfile (docker), an MLflow
project file (mlflow) and pytest stubs (tests). Other missing components are
reported but not generated.

Only the component name and the list of missing components are sent to the
model; repository contents never leave the machine. Generated files go to
--fix-dir and are never written into the audited repository.

Requires GEMINI_API_KEY (environment, .env, or gemini-api-key in the config file).

Examples:
	mlopsaudit fix ./my-model
	mlopsaudit fix --from-audit outputs/audit_report.json --fix-dir drafts
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Source.Target = args[0]
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(contextOf(cmd), cfg.Runtime.Timeout)
		defer cancel()

		rec, err := auditForFix(ctx, cmd)
		if err != nil {
			return err
		}

		llm, err := fix.NewGemini(ctx, fix.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		})
		if err != nil {
			return err
		}
		defer llm.Close()

		return runFix(ctx, cmd.OutOrStdout(), llm, rec.Missing())
	},
}

func auditForFix(ctx context.Context, cmd *cobra.Command) (*audit.Record, error) {
	if cfg.Source.Target == "" {
		return loadAuditRecord(cmd, cfg.Source.AuditRef)
	}
	if cfg.Source.AuditRef != "" {
		return nil, errors.New("a repository and --from-audit are mutually exclusive")
	}

	eng, err := engine.FromConfig(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	res, err := eng.Audit(ctx, cfg.Source.Target, cfg.Source.Branch, nil)
	if err != nil {
		return nil, err
	}
	return res.Audit, nil
}

func runFix(ctx context.Context, w io.Writer, llm fix.TextGenerator, missing []string) error {
	if len(missing) == 0 {
		fmt.Fprintln(w, "Nothing is missing. No files generated.")
		return nil
	}

	var unsupported []string
	for _, m := range missing {
		if !fix.Supported(m) {
			unsupported = append(unsupported, m)
		}
	}

	gen := fix.NewGenerator(llm, cfg.LLM.OutDir)
	gen.Log = w
	written, err := gen.Run(ctx, missing)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Fprintln(w, "No generator for the missing components.")
	}
	if len(unsupported) > 0 {
		fmt.Fprintf(w, "Not generated: %s\n", strings.Join(unsupported, ", "))
	}
	return nil
}

func cfgScanOptions() scan.Options {
	return scan.Options{Ignore: cfg.Scan.Ignore}
}

func init() {
	rootCmd.AddCommand(fixCmd)

	addSourceFlags(fixCmd)
	fixCmd.Flags().StringVar(&cfg.Source.AuditRef, flags.FlagFromAudit, "", "Stored audit record to fix from (default: the store's latest)")
	addAuditFlags(fixCmd)
	addStoreFlags(fixCmd)
	addLLMFlags(fixCmd)
	fixCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 10m)")
}

