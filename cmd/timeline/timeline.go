// Package timeline implements the curated timeline subcommand.
package timeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metscout/metscout/internal/app"
	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/conf"
)

// Command creates the timeline subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "timeline [period]",
		Short: "Assemble a curated timeline for an art period",
		Long:  "Assemble a curated artwork set for a period (for example \"renaissance\" or \"impressionism\") and print each record as it is found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), settings)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			onFound := func(rec artwork.Artwork) {
				if err := enc.Encode(rec); err != nil {
					fmt.Fprintf(os.Stderr, "encoding artwork: %v\n", err)
				}
			}

			found, err := a.Assembler.GetCuratedTimeline(cmd.Context(), args[0], limit, onFound)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "collected %d of %d artworks for %q\n", len(found), limit, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of artworks to collect")

	return cmd
}
