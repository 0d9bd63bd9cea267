package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check local tool health and catalog reachability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				mu         sync.Mutex
				brewReport string
				brewErr    error
				catalogErr error
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				report, err := app.Doctor.Doctor(ctx)
				mu.Lock()
				brewReport, brewErr = report, err
				mu.Unlock()
				return nil
			})
			g.Go(func() error {
				err := app.Health.Ping(ctx)
				mu.Lock()
				catalogErr = err
				mu.Unlock()
				return nil
			})
			// Both checks always report; neither aborts the other.
			_ = g.Wait()

			out := cmd.OutOrStdout()

			switch {
			case brewErr != nil:
				fmt.Fprintf(out, "brew:    unavailable (%v)\n", brewErr)
			case strings.TrimSpace(brewReport) == "":
				fmt.Fprintln(out, "brew:    ok")
			default:
				fmt.Fprintf(out, "brew:    findings\n%s\n", indent(brewReport, "  "))
			}

			if catalogErr != nil {
				fmt.Fprintf(out, "catalog: unreachable (%v)\n", catalogErr)
			} else {
				fmt.Fprintln(out, "catalog: ok")
			}

			if fix && brewErr == nil {
				if _, err := app.Doctor.UpdateHomebrew(cmd.Context()); err != nil {
					fmt.Fprintf(out, "update:  failed (%v)\n", err)
				} else {
					fmt.Fprintln(out, "update:  homebrew metadata refreshed")
				}
			}

			if brewErr != nil || catalogErr != nil {
				return fmt.Errorf("health check reported problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "run 'brew update' after a healthy check")
	return cmd
}
