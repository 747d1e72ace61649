// Package object implements the single-object lookup subcommand.
package object

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metscout/metscout/internal/app"
	"github.com/metscout/metscout/internal/conf"
)

// Command creates the object subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "object [id]",
		Short: "Fetch one normalized artwork by object id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid object id: %q", args[0])
			}

			a, err := app.New(cmd.Context(), settings)
			if err != nil {
				return err
			}

			art, err := a.Catalog.GetArtwork(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(art)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
