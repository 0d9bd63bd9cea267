package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

func newUpgradeCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "upgrade [name]",
		Short: "Upgrade one package, or everything with --all",
		Args:  cobra.MaximumNArgs(1),
		Example: `  brewdeck upgrade wget
  brewdeck upgrade --all
  brewdeck upgrade --all --kind cask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}

			if all {
				var kindFilter *catalog.Kind
				if hasKind {
					kindFilter = &kind
				}
				result := app.Deck.UpdateAll(cmd.Context(), kindFilter)
				return writeOpResult(cmd, result)
			}

			if len(args) == 0 {
				return fmt.Errorf("a package name or --all is required")
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			result := app.Deck.Update(cmd.Context(), args[0], kind)
			return writeOpResult(cmd, result)
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	cmd.Flags().BoolVar(&all, "all", false, "upgrade every outdated package")
	return cmd
}
