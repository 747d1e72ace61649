// Package cmd assembles the command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metscout/metscout/cmd/object"
	"github.com/metscout/metscout/cmd/search"
	"github.com/metscout/metscout/cmd/serve"
	"github.com/metscout/metscout/cmd/timeline"
	"github.com/metscout/metscout/internal/conf"
)

// RootCommand creates and returns the root command with all
// subcommands attached.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metscout",
		Short: "MetScout - cached discovery layer for the Met collection API",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		serve.Command(settings),
		object.Command(settings),
		search.Command(settings),
		timeline.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.MetAPI.BaseURL, "baseurl", viper.GetString("metapi.baseurl"), "Met collection API base URL")
	rootCmd.PersistentFlags().StringVar(&settings.Cache.Store, "cachestore", viper.GetString("cache.store"), "Cache store backend (memory, file or redis)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
