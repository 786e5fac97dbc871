// Package cmd - modifier table commands
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cardprice/core/modifiers"
	"cardprice/core/output"
	"cardprice/internal/config"
)

// createFile opens an export destination
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type modifiersOptions struct {
	format    string
	locale    string
	modifiers string
	output    string
}

// newModifiersCmd represents the modifiers command
func newModifiersCmd() *cobra.Command {
	opts := &modifiersOptions{}

	cmd := &cobra.Command{
		Use:   "modifiers",
		Short: "Show the active modifier table",
		Long: `Print the modifier table used for pricing.

The built-in table is used unless --modifiers or pricing.modifiers_path
names an HCL file. Use --format hcl to export a table as an editable file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModifiers(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "cli", "output format (cli, json, hcl)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "label language (en, uk)")
	cmd.Flags().StringVarP(&opts.modifiers, "modifiers", "m", "", "HCL modifier table file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	cmd.AddCommand(newModifiersCheckCmd())
	return cmd
}

func runModifiers(cmd *cobra.Command, opts *modifiersOptions) (err error) {
	f, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(opts.locale)
	if err != nil {
		return err
	}
	calc, err := loadCalculator(opts.modifiers)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.output != "" {
		file, ferr := createFile(opts.output)
		if ferr != nil {
			return fmt.Errorf("failed to create %s: %w", opts.output, ferr)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write %s: %w", opts.output, cerr)
			}
		}()
		w = file
	}

	return output.NewRenderer(f, catalog, config.Get().Output.NoColor).RenderTable(w, calc.Table())
}

// newModifiersCheckCmd validates a modifier table file without using it
func newModifiersCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate an HCL modifier table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := modifiers.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n", args[0])
			fmt.Fprintf(out, "  languages:           %d\n", len(table.Languages()))
			fmt.Fprintf(out, "  conditions:          %d\n", len(table.Conditions()))
			fmt.Fprintf(out, "  impossible variants: %d\n", len(table.Rules()))
			if table.Equal(modifiers.Default()) {
				fmt.Fprintln(out, "  matches the built-in table")
			}
			return nil
		},
	}
}
