// Package cmd - config command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardprice/internal/config"
)

// newConfigCmd manages configuration
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file>",
		Short: "Write the effective configuration to a .toml or .json file",
		Long: `Write the configuration in effect (defaults, --config file and CARDPRICE_*
environment overrides applied) to a file that --config can load back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Get().Save(args[0]); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ configuration written to %s\n", args[0])
			return nil
		},
	})

	return cmd
}
