package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	"github.com/msto63/fanucmacro/pkg/core/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if done, err := printStructured(out, appConfig); done {
			return err
		}
		return toml.NewEncoder(out).Encode(appConfig)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the default configuration (default: ./configs/macro.toml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./configs/macro.toml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return mdwerror.New(fmt.Sprintf("config file already exists: %s (use --force)", path)).
				WithCode(mdwerror.CodeValidationFailed).
				WithOperation("cmd.configInit").
				WithDetail("path", path)
		}

		if err := config.Default().Write(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
