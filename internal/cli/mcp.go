package cli

import (
	"io"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/flags"
	"mlopsaudit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve scan and audit as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout so AI agents can call
scan_repository, audit_repository and list_checks.

Stdout carries the protocol; nothing else is printed there.

Examples:
	mlopsaudit mcp
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := contextOf(cmd)

		eng, err := engine.FromConfig(ctx, cfg, io.Discard)
		if err != nil {
			return err
		}
		defer eng.Close()

		version, _, _ := BuildInfo()
		return mcp.StartMCPServer(ctx, eng, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringSliceVar(&cfg.Scan.Ignore, flags.FlagIgnore, cfg.Scan.Ignore, "Directory names to skip while scanning")
	addAuditFlags(mcpCmd)
	addStoreFlags(mcpCmd)
}
