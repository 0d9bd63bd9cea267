package cli

import (
	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

func newInfoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show package details, dependencies, and caveats",
		Args:  cobra.ExactArgs(1),
		Example: `  brewdeck info wget
  brewdeck info visual-studio-code --kind cask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			pkg, err := app.Deck.PackageDetails(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}
			app.prefetchRelated(args[0], kind)

			if outputFormat(cmd) == "json" {
				return writeJSON(cmd.OutOrStdout(), pkg)
			}
			writePackageDetail(cmd.OutOrStdout(), pkg)
			return nil
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	return cmd
}
