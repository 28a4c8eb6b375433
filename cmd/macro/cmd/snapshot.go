package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fanucmacro/internal/session/store"
)

var (
	snapshotSession string
	snapshotLimit   int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage saved register snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := openStore()
		if err != nil {
			return err
		}
		defer snapshots.Close()

		list, err := snapshots.List(cmd.Context(), store.SnapshotFilter{
			SessionID: snapshotSession,
			Limit:     snapshotLimit,
		})
		if err != nil {
			return err
		}
		return printSnapshotList(cmd.OutOrStdout(), list)
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a snapshot and its registers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := openStore()
		if err != nil {
			return err
		}
		defer snapshots.Close()

		snapshot, err := snapshots.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printSnapshot(cmd.OutOrStdout(), snapshot)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := openStore()
		if err != nil {
			return err
		}
		defer snapshots.Close()

		if err := snapshots.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		if outputFormat == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "deleted snapshot %s\n", args[0])
		}
		return nil
	},
}

func init() {
	snapshotListCmd.Flags().StringVar(&snapshotSession, "session", "", "only snapshots of this session")
	snapshotListCmd.Flags().IntVar(&snapshotLimit, "limit", 20, "maximum number of snapshots (0 = all)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
