package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
	"github.com/msto63/fanucmacro/internal/session"
	"github.com/msto63/fanucmacro/internal/session/store"
	"github.com/msto63/fanucmacro/pkg/core/config"
	"github.com/msto63/fanucmacro/pkg/core/logging"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string

	appConfig *config.Config
	logger    *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "macro",
	Short: "Fanuc-style macro interpreter",
	Long: `macro evaluates Fanuc-style custom macro programs.

Programs assign and read numbered variables (#1, #2, ...) using
arithmetic with the usual precedence, brackets and a right-associative
power operator:

  #1 = 2 + 3 * 4
  #2 = [#1 - 4] / 2 ^ 2

Register values can be saved as snapshots and restored later.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and reports any error on stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err, verbose)
	}
	return err
}

// reportError prints err; with detail it also names the code and root cause
func reportError(w io.Writer, err error, detail bool) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if !detail {
		return
	}

	fmt.Fprintf(w, "Code: %s (exit %d)\n", mdwerror.GetCode(err), mdwerror.GetCode(err).ExitCode())
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) && mdwErr.Unwrap() != nil {
		fmt.Fprintf(w, "Cause: %v\n", mdwErr.RootCause())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MACRO_CONFIG or ./configs/macro.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, yaml")
}

// setup loads configuration and creates the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	switch strings.ToLower(outputFormat) {
	case "text", "json", "yaml":
		outputFormat = strings.ToLower(outputFormat)
	default:
		return mdwerror.New(fmt.Sprintf("unknown output format %q (use text, json or yaml)", outputFormat)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.setup")
	}

	// Styles render plain text unless stdout is a terminal
	if !isTerminal(cmd.OutOrStdout()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "macro",
		Level:       appConfig.Log.Level,
		Format:      appConfig.Log.Format,
		Verbose:     verbose,
		Output:      cmd.ErrOrStderr(),
	})
	mdwlog.SetDefault(logger)

	logger.Debug("Configuration loaded", mdwlog.Fields{
		"config":        cfgFile,
		"registers_min": appConfig.Registers.Min,
		"registers_max": appConfig.Registers.Max,
		"storage":       appConfig.Storage.Enabled,
	})
	return nil
}

// newSession creates a session over the configured register range
func newSession() (*session.Session, error) {
	return session.New(session.Options{
		Min:    variables.Register(appConfig.Registers.Min),
		Max:    variables.Register(appConfig.Registers.Max),
		Logger: logger,
	})
}

// openStore opens the snapshot database named in the configuration
func openStore() (*store.SQLiteSnapshotStore, error) {
	if !appConfig.Storage.Enabled {
		return nil, mdwerror.New("snapshot storage is disabled (set storage.enabled = true)").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("cmd.openStore")
	}

	logger.Debug("Opening snapshot store", mdwlog.Fields{"path": appConfig.Storage.Path})
	return store.NewSQLiteSnapshotStore(store.SQLiteConfig{Path: appConfig.Storage.Path})
}
