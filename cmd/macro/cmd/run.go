package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/internal/session"
)

var (
	runSave      bool
	runLabel     string
	runRestore   string
	runRegisters bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a macro program",
	Long: `Run a macro program from FILE ("-" reads stdin).

Statements run in order; the first failing statement stops the run.
With --restore the registers of a saved snapshot are loaded first,
with --save the final registers are stored as a new snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	runCmd.Flags().BoolVar(&runSave, "save", false, "save the final registers as a snapshot")
	runCmd.Flags().StringVar(&runLabel, "label", "", "label for the saved snapshot (default: file name)")
	runCmd.Flags().StringVar(&runRestore, "restore", "", "restore registers from snapshot ID before running")
	runCmd.Flags().BoolVar(&runRegisters, "registers", true, "print the final registers")
	rootCmd.AddCommand(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	sess, err := newSession()
	if err != nil {
		return err
	}

	if runRestore != "" {
		if err := restoreSnapshot(cmd, sess, runRestore); err != nil {
			return err
		}
	}

	results, runErr := sess.Exec(cmd.Context(), source)

	out := cmd.OutOrStdout()
	if outputFormat == "text" || runErr == nil {
		if err := printResults(out, results); err != nil {
			return err
		}
	}
	if runErr != nil {
		logger.LogError(runErr)
		return runErr
	}

	if runRegisters {
		if outputFormat == "text" {
			fmt.Fprintln(out)
		}
		if err := printRegisters(out, sess.Snapshot()); err != nil {
			return err
		}
	}

	if runSave {
		label := runLabel
		if label == "" {
			label = filepath.Base(args[0])
		}
		return saveSnapshot(cmd, sess, label)
	}
	return nil
}

// readSource reads a program from a file or, for "-", from stdin
func readSource(cmd *cobra.Command, path string) (string, error) {
	var content []byte
	var err error
	if path == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", mdwerror.Wrap(err, "failed to read program").
			WithCode(code).
			WithOperation("cmd.readSource").
			WithDetail("path", path)
	}
	return string(content), nil
}

func restoreSnapshot(cmd *cobra.Command, sess *session.Session, id string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	defer snapshots.Close()

	snapshot, err := snapshots.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := sess.Restore(snapshot.Registers); err != nil {
		return err
	}

	logger.Info("Snapshot restored", mdwlog.Fields{
		"snapshot":  snapshot.ID,
		"registers": len(snapshot.Registers),
	})
	return nil
}

func saveSnapshot(cmd *cobra.Command, sess *session.Session, label string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	defer snapshots.Close()

	snapshot := sess.Record(label)
	if err := snapshots.Save(cmd.Context(), snapshot); err != nil {
		return err
	}

	logger.Info("Snapshot saved", mdwlog.Fields{
		"snapshot":  snapshot.ID,
		"session":   snapshot.SessionID,
		"registers": len(snapshot.Registers),
	})
	if outputFormat == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nsaved snapshot %s\n", snapshot.ID)
	}
	return nil
}
