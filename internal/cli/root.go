// Package cli implements the brewdeck command surface.
package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/config"
	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/prefetch"
	"github.com/echozyr2001/BrewDeck/internal/tasks"
)

// DoctorClient is the slice of the local tool the doctor command needs.
type DoctorClient interface {
	Doctor(ctx context.Context) (string, error)
	UpdateHomebrew(ctx context.Context) (string, error)
}

// HealthPinger checks remote catalog reachability.
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// App carries every collaborator a command may need. main (or Setup) fills
// it once; commands only read it.
type App struct {
	Version string

	Config    *config.Config
	Logger    zerolog.Logger
	Deck      *deck.Service
	Scheduler *prefetch.Scheduler
	Doctor    DoctorClient
	Health    HealthPinger
	Registry  *tasks.Registry
}

// SetupFunc builds the App's collaborators once flags are parsed. Tests
// pass nil and pre-populate the App instead.
type SetupFunc func(app *App, cmd *cobra.Command) error

// prefetchRelated warms the cache for a package's dependencies in the
// background after the user showed interest in it. A no-op without a
// scheduler or task registry.
func (app *App) prefetchRelated(name string, kind catalog.Kind) {
	if app.Scheduler == nil || app.Registry == nil {
		return
	}
	app.Registry.Go("prefetch.related", func(ctx context.Context) error {
		app.Scheduler.PrefetchRelated(ctx, name, kind)
		return nil
	})
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root brewdeck command with all subcommands wired.
func NewRootCmd(app *App, setup SetupFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "brewdeck",
		Short:         "Cached, resilient frontend for Homebrew",
		Long:          "BrewDeck browses, searches, and manages Homebrew packages through a local cache that keeps working when the network does not.",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # List all formulae, most downloaded first
  brewdeck list

  # Search casks for an editor
  brewdeck search editor --kind cask

  # Show details, caveats, and warnings
  brewdeck info wget

  # Install a formula
  brewdeck install wget

  # Upgrade everything that is outdated
  brewdeck upgrade --all

  # Interactive package browser
  brewdeck browse`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if setup != nil {
				return setup(app, cmd)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file (default ~/.brewdeck/config.yaml)")

	cmd.AddCommand(
		newListCmd(app),
		newSearchCmd(app),
		newInfoCmd(app),
		newInstallCmd(app),
		newUninstallCmd(app),
		newUpgradeCmd(app),
		newDoctorCmd(app),
		newPrefetchCmd(app),
		newBrowseCmd(app),
	)

	return cmd
}
