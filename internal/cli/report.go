package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/flags"
	"mlopsaudit/internal/output"
	"mlopsaudit/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a stored audit record as Markdown",
	Long: `Render a stored audit record as a Markdown report.

Without --from-audit the store's default record is used: audit_report.json in
the output directory for the file store, the latest audit for SQL stores.

Examples:
	mlopsaudit report
	mlopsaudit report --from-audit outputs/audit_report.json --report audit.md
	mlopsaudit report --store sqlite --report reports/latest.md
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		rec, err := loadAuditRecord(cmd, cfg.Source.AuditRef)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), cfg.Output.Report, rec)
	},
}

// loadAuditRecord reads ref from the configured store.
func loadAuditRecord(cmd *cobra.Command, ref string) (*audit.Record, error) {
	st, err := store.Open(contextOf(cmd), cfg.StoreConfig())
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(nil, st, nil, cfgScanOptions())
	defer eng.Close()
	return eng.LoadAudit(contextOf(cmd), ref)
}

func writeReport(stdout io.Writer, path string, rec *audit.Record) error {
	name := engine.DisplayName(rec.Source)
	if path == "" || path == "-" {
		return output.RenderMarkdown(stdout, rec, name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := output.RenderMarkdown(f, rec, name); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report -> %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&cfg.Source.AuditRef, flags.FlagFromAudit, "", "Stored audit record (file path, row id, or object key; default: the store's latest)")
	reportCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write the report to this path (default: stdout)")
	addStoreFlags(reportCmd)
}
