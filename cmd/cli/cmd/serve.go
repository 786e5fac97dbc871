// Package cmd - serve command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cardprice/api"
	"cardprice/internal/config"
	"cardprice/internal/logging"
)

// newServeCmd runs the HTTP server
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if addr != "" {
				cfg.Server.Address = addr
			}

			calc, err := loadCalculator("")
			if err != nil {
				return err
			}
			catalog, err := loadCatalog("")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			defer logging.Sync()

			return api.NewServer(Version, calc, catalog, cfg.Server).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8050)")
	return cmd
}
