// Package serve implements the HTTP proxy server subcommand.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metscout/metscout/internal/app"
	"github.com/metscout/metscout/internal/conf"
)

// Command creates the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the caching API proxy server",
		Long:  "Start the HTTP server that proxies the Met collection API with response caching, id blacklisting and curated timeline assembly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, settings)
			if err != nil {
				return err
			}
			return a.RunServer(ctx)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Server.Host, "host", viper.GetString("server.host"), "Listen address for the API server")
	cmd.Flags().IntVar(&settings.Server.Port, "port", viper.GetInt("server.port"), "Listen port for the API server")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
