// Package cmd provides the CLI commands for cardprice.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardprice/core/messages"
	"cardprice/core/modifiers"
	"cardprice/core/pricing"
	"cardprice/internal/config"
	"cardprice/internal/logging"
)

// Version is the CLI version, overridden at link time
var Version = "0.1.0"

// envFile is loaded before the config, when present
const envFile = ".env"

// errReported marks a failure whose message was already printed
var errReported = errors.New("reported")

// rootOptions holds the persistent flags
type rootOptions struct {
	cfgFile string
	verbose bool
}

// rootCmd represents the base command
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cardprice",
		Short: "Price collectible cards",
		Long: `cardprice computes the price of a collectible card from its base price,
language, condition, foil finish and alternate art.

Examples:
  cardprice price --base 100 --language Japanese --condition perfect
  cardprice price --base 100 --language italian --condition damaged --locale uk
  cardprice modifiers --format json
  cardprice serve --addr :8050`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (.toml or .json)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	root.AddCommand(newPriceCmd())
	root.AddCommand(newModifiersCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func (o *rootOptions) initConfig() error {
	if err := config.LoadEnvFiles(envFile); err != nil {
		return err
	}

	cfg := config.Default()
	if o.cfgFile != "" {
		loaded, err := config.Load(o.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	config.Set(cfg)

	// Initialize logging
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// loadCalculator builds a calculator over the table at path, or the built-in table
func loadCalculator(path string) (*pricing.Calculator, error) {
	if path == "" {
		path = config.Get().Pricing.ModifiersPath
	}
	if path == "" {
		return pricing.NewCalculator(nil), nil
	}
	table, err := modifiers.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(table), nil
}

// loadCatalog picks the message catalog for locale, or the configured one
func loadCatalog(locale string) (*messages.Catalog, error) {
	if locale == "" {
		locale = config.Get().Pricing.Locale
	}
	return messages.For(locale)
}

// newVersionCmd prints version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cardprice version %s\n", Version)
		},
	}
}
