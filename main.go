package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/metscout/metscout/cmd"
	"github.com/metscout/metscout/internal/conf"
	"github.com/metscout/metscout/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command execution error: %v\n", err)
		os.Exit(1)
	}
}
