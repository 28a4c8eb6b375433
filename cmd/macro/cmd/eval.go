package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPR...",
	Short: "Evaluate macro statements given on the command line",
	Long: `Evaluate macro statements given on the command line. Arguments are
joined with spaces; separate statements with ';'.

  macro eval '2 + 3 * 4'
  macro eval '#1 = 5; #1 ^ 2'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	results, err := sess.Exec(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), results)
}
