// Package cmd - price command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cardprice/core/output"
	"cardprice/core/types"
	"cardprice/internal/config"
	"cardprice/internal/logging"
)

type priceOptions struct {
	base      string
	language  string
	condition string
	foil      bool
	alternate bool
	format    string
	locale    string
	modifiers string
}

// newPriceCmd represents the price command
func newPriceCmd() *cobra.Command {
	opts := &priceOptions{}

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Compute the price of one card",
		Long: `Compute the price of one card and print the result.

Language and condition are matched case-insensitively; an unknown value is
reported with the closest known names.

Examples:
  cardprice price --base 100 --language Ukrainian --condition perfect
  cardprice price --base 19.99 --language english --condition "slightly damaged" --foil
  cardprice price --base 100 --language japanese --condition damaged --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.base, "base", "b", "", "base card price")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "card language (Ukrainian, English, Japanese, Italian)")
	cmd.Flags().StringVarP(&opts.condition, "condition", "c", "", `card condition (perfect, "slightly damaged", damaged, "heavily damaged")`)
	cmd.Flags().BoolVar(&opts.foil, "foil", false, "foil finish")
	cmd.Flags().BoolVar(&opts.alternate, "alternate", false, "alternate art")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (text, json, cli)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "message language (en, uk)")
	cmd.Flags().StringVarP(&opts.modifiers, "modifiers", "m", "", "HCL modifier table file")

	return cmd
}

func runPrice(cmd *cobra.Command, opts *priceOptions) error {
	cfg := config.Get()

	format := opts.format
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := output.ParseFormat(format)
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

	in, err := calc.Normalize(types.PricingInput{
		BasePrice: opts.base,
		Language:  types.Language(opts.language),
		Condition: types.Condition(opts.condition),
		Foil:      opts.foil,
		Alternate: opts.alternate,
	})
	var quote *types.Quote
	if err == nil {
		quote, err = calc.Compute(in)
	}

	renderer := output.NewRenderer(f, catalog, cfg.Output.NoColor)
	if rerr := renderer.RenderQuote(cmd.OutOrStdout(), quote, err); rerr != nil {
		return rerr
	}
	if err != nil {
		logging.Debug("price rejected", zap.Error(err))
		return errReported
	}
	return nil
}
