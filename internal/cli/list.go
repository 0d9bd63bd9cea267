package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/deck"
)

// parseKindFlag reads --kind; ok is false when the flag was not given.
func parseKindFlag(cmd *cobra.Command) (kind catalog.Kind, ok bool, err error) {
	raw, _ := cmd.Flags().GetString("kind")
	if raw == "" {
		return "", false, nil
	}
	kind, err = catalog.ParseKind(raw)
	return kind, err == nil, err
}

func newListCmd(app *App) *cobra.Command {
	var outdatedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages, most downloaded first",
		Long:  "List packages of one or both kinds with install state and download counts. Without --kind, formulae and casks are fetched in parallel.",
		Example: `  # Everything, formulae and casks
  brewdeck list

  # Only outdated formulae
  brewdeck list --kind formula --outdated`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}

			kinds := catalog.Kinds()
			if hasKind {
				kinds = []catalog.Kind{kind}
			}

			packages, err := fetchListings(cmd.Context(), app.Deck, kinds)
			if err != nil {
				return err
			}

			if outdatedOnly {
				filtered := packages[:0]
				for _, pkg := range packages {
					if pkg.Outdated {
						filtered = append(filtered, pkg)
					}
				}
				packages = filtered
			}
			deck.SortByDownloads(packages)

			if outputFormat(cmd) == "json" {
				return writeJSON(cmd.OutOrStdout(), packages)
			}
			return writePackagesTable(cmd.OutOrStdout(), packages)
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask")
	cmd.Flags().BoolVar(&outdatedOnly, "outdated", false, "show only outdated packages")

	return cmd
}

// fetchListings retrieves each kind's listing concurrently and merges them.
func fetchListings(ctx context.Context, svc *deck.Service, kinds []catalog.Kind) ([]deck.Package, error) {
	var (
		mu       sync.Mutex
		packages []deck.Package
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			listing, err := svc.Packages(ctx, kind)
			if err != nil {
				return err
			}
			mu.Lock()
			packages = append(packages, listing...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return packages, nil
}
