package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/config"
	"github.com/willibrandon/eventarb/internal/logger"
	"github.com/willibrandon/eventarb/internal/storage/sqlite"
)

// newHistoryCmd creates the history subcommand and its children.
func newHistoryCmd() *cobra.Command {
	var limit int
	var alertType, runID string
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded alert transitions",
		Long: `List changes of the displayed alert recorded by previous runs, newest first.

Examples:
  eventarb history --limit 20
  eventarb history --type fcw/permanent
  eventarb history --since 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(ctx context.Context, store *sqlite.AlertStore) error {
				var history []alerts.Transition
				var err error
				switch {
				case alertType != "":
					history, err = store.GetHistoryForType(ctx, alertType, limit)
				case runID != "":
					history, err = store.GetHistoryForRun(ctx, runID, limit)
				case since > 0:
					history, err = store.GetHistorySince(ctx, time.Now().Add(-since), limit)
				default:
					history, err = store.GetHistory(ctx, limit)
				}
				if err != nil {
					return fmt.Errorf("reading history: %w", err)
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(history)
				}
				printHistory(os.Stdout, history)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum transitions to show (0 for all)")
	cmd.Flags().StringVar(&alertType, "type", "", "only transitions to or from this alert type")
	cmd.Flags().StringVar(&runID, "run", "", "only transitions of this run id")
	cmd.Flags().DurationVar(&since, "since", 0, "only transitions newer than this")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	cmd.AddCommand(newHistoryStatsCmd(), newHistoryLatencyCmd(), newHistoryExportCmd(), newHistoryPruneCmd())
	return cmd
}

func newHistoryStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count how often each alert type was displayed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(ctx context.Context, store *sqlite.AlertStore) error {
				counts, err := store.CountByType(ctx)
				if err != nil {
					return fmt.Errorf("counting history: %w", err)
				}
				total, err := store.Count(ctx)
				if err != nil {
					return fmt.Errorf("counting history: %w", err)
				}

				fmt.Printf("%s transitions recorded\n\n", humanize.Comma(total))
				for _, c := range counts {
					fmt.Printf("  %s %8s  %s\n",
						pad(c.AlertType, 40),
						humanize.Comma(c.Count),
						mutedFormat("last "+humanize.Time(c.LastShown)))
				}
				return nil
			})
		},
	}
}

func newHistoryLatencyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "latency",
		Short: "Show cycle latency recorded by recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryConfig(func(ctx context.Context, _ *config.Config, store *sqlite.AlertStore) error {
				summaries, err := sqlite.NewLatencyStore(store.DB()).Summaries(ctx, limit)
				if err != nil {
					return err
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(summaries)
				}

				if len(summaries) == 0 {
					fmt.Println("no latency recorded")
					return nil
				}
				for _, r := range summaries {
					fmt.Printf("%s %s  %6s samples  avg %-10s max %-10s\n",
						pad(r.RunID, 36),
						mutedFormat(pad(humanize.Time(r.Last), 16)),
						humanize.Comma(r.Samples),
						r.Average.Round(time.Microsecond),
						r.Max.Round(time.Microsecond))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	var output, compression string
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alert history as JSON Lines",
		Long: `Export recorded transitions, oldest first, as JSON Lines. The output may be
compressed with gzip, lz4 or zstd.

Examples:
  eventarb history export > history.jsonl
  eventarb history export --compression zstd --output history
  eventarb history export --since 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sqlite.ParseCompression(compression)
			if err != nil {
				return err
			}

			return withHistory(func(ctx context.Context, store *sqlite.AlertStore) error {
				var w io.Writer = os.Stdout
				if output != "" {
					if !strings.HasSuffix(output, c.Extension()) {
						output += c.Extension()
					}
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("creating export file: %w", err)
					}
					defer f.Close()
					w = f
				}

				var from time.Time
				if since > 0 {
					from = time.Now().Add(-since)
				}

				n, err := store.Export(ctx, w, c, from)
				if err != nil {
					return err
				}
				logger.Info("history exported", "transitions", n, "compression", string(c), "output", output)
				if output != "" {
					fmt.Fprintf(os.Stderr, "exported %s transitions to %s\n", humanize.Comma(int64(n)), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&compression, "compression", "none", "none, gzip, lz4 or zstd")
	cmd.Flags().DurationVar(&since, "since", 0, "only transitions newer than this")
	return cmd
}

func newHistoryPruneCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete transitions older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryConfig(func(ctx context.Context, cfg *config.Config, store *sqlite.AlertStore) error {
				keep := retention
				if keep == 0 {
					keep = cfg.History.Retention
				}
				n, err := store.Prune(ctx, keep)
				if err != nil {
					return fmt.Errorf("pruning history: %w", err)
				}
				samples, err := sqlite.NewLatencyStore(store.DB()).Prune(ctx, keep)
				if err != nil {
					return fmt.Errorf("pruning latency: %w", err)
				}
				fmt.Printf("deleted %s transitions and %s latency samples older than %s\n",
					humanize.Comma(n), humanize.Comma(samples), keep)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 0, "retention period (default history.retention)")
	return cmd
}

func withHistory(fn func(ctx context.Context, store *sqlite.AlertStore) error) error {
	return withHistoryConfig(func(ctx context.Context, _ *config.Config, store *sqlite.AlertStore) error {
		return fn(ctx, store)
	})
}

// withHistoryConfig opens the configured history database for the duration
// of fn.
func withHistoryConfig(fn func(ctx context.Context, cfg *config.Config, store *sqlite.AlertStore) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	if _, err := os.Stat(cfg.History.Path); err != nil {
		return fmt.Errorf("no alert history at %s: %w", cfg.History.Path, err)
	}

	db, err := sqlite.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer db.Close()

	return fn(context.Background(), cfg, sqlite.NewAlertStore(db))
}

// printHistory writes transitions as aligned columns.
func printHistory(w io.Writer, history []alerts.Transition) {
	if len(history) == 0 {
		fmt.Fprintln(w, "no transitions recorded")
		return
	}

	for _, t := range history {
		when := pad(humanize.Time(t.ShownAt), 16)
		run := t.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		if t.Cleared() {
			fmt.Fprintf(w, "%s %s %8d  %s\n",
				mutedFormat(when), mutedFormat(run), t.Cycle, mutedFormat(t.Describe()))
			continue
		}
		fmt.Fprintf(w, "%s %s %8d  %s  %s  %s\n",
			mutedFormat(when), mutedFormat(run), t.Cycle,
			pad(t.Describe(), 48),
			formatPriority(t.Priority),
			truncate(alertText(t.Text1, t.Text2), 50))
	}
}
