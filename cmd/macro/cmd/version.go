package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fanucmacro/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()
		if done, err := printStructured(out, info); done {
			return err
		}

		fmt.Fprintf(out, "macro v%s\n", info.Version)
		fmt.Fprintf(out, "  Language:   %s\n", info.Language)
		fmt.Fprintf(out, "  Snapshots:  schema %d\n", info.SnapshotSchema)
		fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
