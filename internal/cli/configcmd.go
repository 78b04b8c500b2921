package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
				return nil
			}
			path, _ := config.Path()
			printInfo("No config file, using defaults")
			printDetail("Create %s or set $%s", path, config.EnvPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration in effect as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Encode(cmd.OutOrStdout())
		},
	})

	return cmd
}
