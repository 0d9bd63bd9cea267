package cli

import (
	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

func newInstallCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <name>",
		Short: "Install a package",
		Args:  cobra.ExactArgs(1),
		Example: `  brewdeck install wget
  brewdeck install firefox --kind cask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			result := app.Deck.Install(cmd.Context(), args[0], kind)
			if result.Success {
				app.prefetchRelated(args[0], kind)
			}
			return writeOpResult(cmd, result)
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	return cmd
}
