package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

func newUninstallCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove an installed package",
		Args:  cobra.ExactArgs(1),
		Example: `  brewdeck uninstall wget
  brewdeck uninstall firefox --kind cask --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			if !yes {
				question := fmt.Sprintf("Uninstall %s?", name)
				if !Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), question) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			result := app.Deck.Uninstall(cmd.Context(), name, kind)
			return writeOpResult(cmd, result)
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
