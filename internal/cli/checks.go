package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

var checksListQuiet bool

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List and inspect audit checks",
	Long: `Inspect the checks mlopsaudit evaluates.

The graded strategy runs the registered checks in the order listed here. The
weighted strategy uses its own checklist (see "mlopsaudit checks list --weighted").

Examples:
  mlopsaudit checks list
  mlopsaudit checks show docker
  mlopsaudit checks rules
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListWeighted bool

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checks",
	Long: `List every check registered in this build, in evaluation order.

Output:
  A vertical list of checks:
    ----------------------------------------
    CHECK: {ID}
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checksListWeighted {
			printChecklist(cmd.OutOrStdout(), audit.DefaultChecklist())
			return nil
		}
		for _, c := range rules.List() {
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), c.ID())
			} else {
				printCheck(cmd.OutOrStdout(), c)
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [check-id]",
	Short: "Show details of a specific check",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := rules.Resolve(args[0])
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("check not found: %s", args[0])
		}
		printCheck(cmd.OutOrStdout(), list[0])
		return nil
	},
}

var checksRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the file classification rules",
	Long: `List the rules the scanner uses to put files into categories, highest
priority first. The first rule that matches a file claims it; later rules
are not consulted.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printClassifier(cmd.OutOrStdout(), scan.NewClassifier())
		return nil
	},
}

func printClassifier(w io.Writer, cl *scan.Classifier) {
	bold := color.New(color.Bold)
	for i, r := range cl.Rules() {
		fmt.Fprintf(w, "%d. ", i+1)
		bold.Fprintf(w, "%-22s", r.Name)
		fmt.Fprintf(w, " -> %s\n", r.Category)
	}
}

func printCheck(w io.Writer, c rules.Check) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", c.ID())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, c.Title())
	fmt.Fprintln(w, c.Description())
	fmt.Fprintln(w)
}

func printChecklist(w io.Writer, cl *audit.Checklist) {
	bold := color.New(color.Bold)
	for _, e := range cl.Entries() {
		bold.Fprintf(w, "%-12s", e.Key)
		fmt.Fprintf(w, " %-20s weight %d\n", e.Name, e.Weight)
	}
	fmt.Fprintf(w, "\nMaximum score: %d\n", cl.MaxScore())
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check IDs")
	checksListCmd.Flags().BoolVar(&checksListWeighted, "weighted", false, "List the weighted checklist instead")
	checksCmd.AddCommand(checksShowCmd)
	checksCmd.AddCommand(checksRulesCmd)
}
