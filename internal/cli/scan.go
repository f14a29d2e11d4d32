package cli

import (
	"os"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/config"
)

var scanCmd = &cobra.Command{
	Use:   "scan [repository]",
	Short: "Classify a repository's files into MLOps categories",
	Long: `Walk a repository and classify every file into MLOps categories
(python_scripts, config_files, docker_files, test_files, data_folders,
model_files). The scan record is stored for a later "audit --from-scan".

The scan is read-only and never runs repository code.

Exit codes:
	0 = scan record written
	3 = fatal error (scan did not run)

Examples:
	mlopsaudit scan ./my-model
	mlopsaudit scan acme/churn-model --store sqlite
	mlopsaudit scan git@gitlab.com:acme/fraud.git --ignore .git,node_modules
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
		cfg.Runtime.Mode = config.ModeScan
		os.Exit(runEngine(cmd.Context(), cfg))
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.SetHelpTemplate(auditHelpTemplate)

	addSourceFlags(scanCmd)
	addOutputFlags(scanCmd)
	addStoreFlags(scanCmd)
}
