package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	"github.com/msto63/fanucmacro/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run an interactive macro session",
	Long: `Read macro statements line by line and print their results. Register
values persist for the whole session. Errors are reported and the
session continues.

Commands:
  :vars          show set registers
  :reset         unset all registers
  :save [LABEL]  save registers as a snapshot
  :load ID       restore registers from a snapshot
  :quit          leave the session`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	interactive := isTerminal(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if interactive {
		min, max := sess.Bounds()
		fmt.Fprintln(out, headerStyle.Render("macro repl"))
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("session %s, registers #%d..#%d, :quit to leave", sess.ID(), min, max)))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, "macro> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			quit, err := replCommand(cmd, sess, line)
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		results, err := sess.Exec(cmd.Context(), line)
		if perr := printResults(out, results); perr != nil {
			return perr
		}
		if err != nil {
			logger.LogError(err)
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// replCommand handles a ':' command and reports whether the session should end
func replCommand(cmd *cobra.Command, sess *session.Session, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":vars":
		return false, printRegisters(cmd.OutOrStdout(), sess.Snapshot())
	case ":reset":
		sess.Reset()
		return false, nil
	case ":save":
		label := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		return false, saveSnapshot(cmd, sess, label)
	case ":load":
		if len(fields) != 2 {
			return false, mdwerror.New("usage: :load ID").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("repl.load")
		}
		return false, restoreSnapshot(cmd, sess, fields[1])
	}
	return false, mdwerror.New(fmt.Sprintf("unknown command %s", fields[0])).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("repl").
		WithDetail("command", fields[0])
}

// isTerminal reports whether v is a file attached to an interactive terminal
func isTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
