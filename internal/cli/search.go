package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/format"
)

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search packages by name or description",
		Args:  cobra.ExactArgs(1),
		Example: `  brewdeck search wget
  brewdeck search editor --kind cask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			if app.Scheduler != nil {
				app.Scheduler.RecordQuery(query)
			}

			result, err := app.Deck.Search(cmd.Context(), query, kind)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d results in %s\n\n",
				result.TotalCount, format.Duration(result.Elapsed))
			return writePackagesTable(cmd.OutOrStdout(), result.Packages)
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	return cmd
}
