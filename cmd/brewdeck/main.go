// Command brewdeck is a cached, resilient frontend for Homebrew.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/echozyr2001/BrewDeck/internal/cli"
	"github.com/echozyr2001/BrewDeck/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Version: version}
	root := cli.NewRootCmd(app, cli.Setup)

	err := root.ExecuteContext(ctx)

	// The registry exists only after Setup ran; join every background loop
	// before the process exits.
	if app.Registry != nil {
		if shutdownErr := app.Registry.Shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}
	config.CloseLogFile()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
