// Package search implements the collection search subcommand.
package search

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/metscout/metscout/internal/app"
	"github.com/metscout/metscout/internal/conf"
)

// Command creates the search subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var hasImages bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the collection and print matching object ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), settings)
			if err != nil {
				return err
			}

			result, err := a.Catalog.Search(cmd.Context(), args[0], hasImages)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&hasImages, "hasimages", true, "Restrict results to objects with images")

	return cmd
}
