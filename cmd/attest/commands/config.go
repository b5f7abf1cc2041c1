package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/attest/internal/config"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/paths"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show attest configuration",
	Long: `Show the effective attest configuration.

Values come from config.yaml in the current directory or in
~/.config/attest, ATTEST_ prefixed environment variables, and defaults.

Without a subcommand, shows all configuration values.`,
	Example: `  # Show all configuration
  attest config

  # Get a specific value
  attest config get rules

See Also: attest config show, attest config path`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration",
	Long:  `Show all configuration values in YAML format.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key.`,
	Example: `  # Get the default rule file
  attest config get rules`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Long: `Print the config file attest read, or the directory it searches when
no file was found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if file := config.File(); file != "" {
			fmt.Fprintln(cmd.OutOrStdout(), file)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "no config file (searched . and %s)\n", paths.ConfigDir())
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if !viper.IsSet(key) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "config key %q", key),
			"keys: version, rules, format, concurrency, max_file_size")
	}

	fmt.Fprintln(cmd.OutOrStdout(), viper.GetString(key))
	return nil
}
