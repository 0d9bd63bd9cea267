package cli

import (
	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/brew"
	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/config"
	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/logging"
	"github.com/echozyr2001/BrewDeck/internal/prefetch"
	"github.com/echozyr2001/BrewDeck/internal/tasks"
)

// Setup is the production SetupFunc: it loads configuration, initializes
// logging, and wires the cache, clients, facade, scheduler, and task
// registry into the App. It runs once from the root command's persistent
// pre-run, after flags are parsed.
func Setup(app *App, cmd *cobra.Command) error {
	if app.Deck != nil {
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	app.Config = cfg

	logger, err := config.InitLogger(cfg.Logging, debug)
	if err != nil {
		return err
	}
	app.Logger = logger

	cacheCfg := cfg.CacheSettings()
	cacheCfg.Logger = logger
	store := cache.New(cacheCfg)

	brewClient := brew.NewClient(cfg.Brew.Path, logger)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, logger)
	catalogClient.SetTimeout(cfg.Catalog.Timeout)

	app.Deck = deck.NewService(store, brewClient, catalogClient, logger)
	app.Scheduler = prefetch.NewScheduler(app.Deck, cfg.Prefetch, logger)
	app.Doctor = brewClient
	app.Health = catalogClient

	app.Registry = tasks.New(cmd.Context(), logging.ComponentLogger(logger, "tasks"))
	store.StartSweep(app.Registry)
	app.Scheduler.Start(app.Registry)

	return nil
}
