package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/tui"
)

func newBrowseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse packages interactively",
		Long:  "Open a full-screen package browser with filtering, install state markers, and a detail pane.",
		Example: `  brewdeck browse
  brewdeck browse --kind cask`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, hasKind, err := parseKindFlag(cmd)
			if err != nil {
				return err
			}
			if !hasKind {
				kind = catalog.KindFormula
			}

			var recorder tui.QueryRecorder
			if app.Scheduler != nil {
				recorder = app.Scheduler
			}
			model := tui.NewBrowseModel(app.Deck, recorder, kind)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().String("kind", "", "package kind: formula or cask (default formula)")
	return cmd
}
