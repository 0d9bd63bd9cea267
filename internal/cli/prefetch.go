package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echozyr2001/BrewDeck/internal/format"
)

func newPrefetchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Inspect the background prefetcher",
	}
	cmd.AddCommand(newPrefetchStatsCmd(app), newPrefetchConfigCmd(app))
	return cmd
}

func newPrefetchStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show prefetch counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats := app.Scheduler.Stats()

			if outputFormat(cmd) == "json" {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "total requests\t%s\n", format.Count(stats.TotalRequests))
			fmt.Fprintf(tw, "successful\t%s\n", format.Count(stats.SuccessfulRequests))
			fmt.Fprintf(tw, "failed\t%s\n", format.Count(stats.FailedRequests))
			fmt.Fprintf(tw, "bytes transferred\t%s\n", format.Count(stats.BytesTransferred))
			fmt.Fprintf(tw, "avg response\t%dms\n", stats.AverageResponseMillis)
			fmt.Fprintf(tw, "hit rate\t%.0f%%\n", stats.CacheHitRate*100)
			return tw.Flush()
		},
	}
}

func newPrefetchConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective prefetch configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Scheduler.Config()

			if outputFormat(cmd) == "json" {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "enabled\t%t\n", cfg.Enabled)
			fmt.Fprintf(tw, "max concurrent\t%d\n", cfg.MaxConcurrentRequests)
			fmt.Fprintf(tw, "wifi only\t%t\n", cfg.WifiOnly)
			fmt.Fprintf(tw, "respect save-data\t%t\n", cfg.RespectSaveData)
			fmt.Fprintf(tw, "popularity threshold\t%s\n", format.Count(cfg.PopularityThreshold))
			fmt.Fprintf(tw, "background refresh\t%t\n", cfg.BackgroundRefreshEnabled)
			fmt.Fprintf(tw, "predictive\t%t\n", cfg.PredictiveEnabled)
			fmt.Fprintf(tw, "interval\t%s\n", cfg.Interval)
			return tw.Flush()
		},
	}
}
