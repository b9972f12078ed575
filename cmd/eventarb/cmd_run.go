package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/eventarb/internal/config"
	"github.com/willibrandon/eventarb/internal/controls"
	"github.com/willibrandon/eventarb/internal/ipc"
	"github.com/willibrandon/eventarb/internal/logger"
	"github.com/willibrandon/eventarb/internal/metrics"
	"github.com/willibrandon/eventarb/internal/storage/sqlite"
)

type runFlags struct {
	realtime  bool
	hold      bool
	quiet     bool
	noHistory bool
	noIPC     bool
}

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario through the control loop",
		Long: `Replay a scenario file through the control loop, printing every change of
the displayed alert.

While running, the loop publishes each cycle on the IPC socket and records
alert transitions to the history database, as configured.

Example scenario:

  params:
    min_enable_speed: 10
  steps:
    - cycles: 150
      events: [gasPressed]
    - events: [doorOpen, fcw]
      types: [noEntry, permanent]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Close()

			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runScenario(ctx, cfg, scenario, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.realtime, "realtime", false, "pace cycles at the control period")
	cmd.Flags().BoolVar(&flags.hold, "hold", false, "keep serving IPC after the scenario ends, until interrupted")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only print the summary")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "keep alert history in memory for this run only")
	cmd.Flags().BoolVar(&flags.noIPC, "no-ipc", false, "do not publish on the IPC socket")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print transitions as JSON lines")

	return cmd
}

func runScenario(ctx context.Context, cfg *config.Config, scenario *Scenario, flags runFlags) error {
	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	src, err := scenario.Source(registry)
	if err != nil {
		return err
	}

	params := cfg.Vehicle.Params()
	if scenario.Params != nil {
		params = *scenario.Params
	}
	metric := cfg.Control.Metric
	if scenario.Metric != nil {
		metric = *scenario.Metric
	}

	m := metrics.New()
	board := ipc.NewBoard()
	opts := []controls.Option{
		controls.WithMetrics(m),
		controls.WithPublisher(board),
	}

	db, err := openHistory(ctx, cfg, flags.noHistory)
	if err != nil {
		return err
	}
	defer db.Close()
	store := sqlite.NewAlertStore(db)
	opts = append(opts, controls.WithRecorder(store))

	loop := controls.New(registry, params, metric, opts...)

	if cfg.IPC.Enabled && !flags.noIPC {
		server, err := ipc.NewServer(cfg.IPC.Path)
		if err != nil {
			return fmt.Errorf("starting IPC server: %w", err)
		}
		ipc.NewHandlers(board, m, loop.RunID(), version).RegisterAll(server)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer server.Stop()
	}

	if cfg.Metrics.Enabled {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("scenario started",
		"run_id", loop.RunID(),
		"cycles", scenario.Cycles(),
		"events", registry.Len(),
		"realtime", flags.realtime)

	start := time.Now()
	transitions := 0
	n, err := loop.Run(ctx, src, controls.RunOptions{
		Realtime: flags.realtime,
		OnResult: func(r controls.Result) {
			if r.Transition == nil {
				return
			}
			transitions++
			if !flags.quiet {
				printTransition(r)
			}
		},
	})
	if err != nil && ctx.Err() == nil {
		return err
	}

	// The run context may already be cancelled.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlite.NewLatencyStore(db).SaveBatch(saveCtx, loop.RunID(), m.RecentLatency(metrics.DefaultSampleCapacity)); err != nil {
		logger.Warn("failed to save cycle latency", "error", err)
	}

	lat := m.Latency()
	fmt.Printf("\n%s %d cycles, %d transitions in %s (avg cycle %s, max %s)\n",
		boldFormat("run "+loop.RunID()),
		n, transitions,
		time.Since(start).Round(time.Millisecond),
		lat.Average, lat.Max)
	if current := loop.Current(); current != "" {
		fmt.Printf("displayed at end: %s\n", current)
	}
	printRunSummary(saveCtx, store, loop.RunID())

	if flags.hold && ctx.Err() == nil {
		fmt.Println("holding; press Ctrl+C to exit")
		<-ctx.Done()
	}

	return nil
}

// openHistory opens the configured history database, or a private in-memory
// one when history is disabled, and prunes old entries.
func openHistory(ctx context.Context, cfg *config.Config, disabled bool) (*sqlite.DB, error) {
	if !cfg.History.Enabled || disabled {
		return sqlite.OpenMemory()
	}

	db, err := sqlite.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	if n, err := sqlite.NewAlertStore(db).Prune(ctx, cfg.History.Retention); err != nil {
		logger.Warn("failed to prune alert history", "error", err)
	} else if n > 0 {
		logger.Info("pruned alert history", "deleted", n, "retention", cfg.History.Retention.String())
	}
	if _, err := sqlite.NewLatencyStore(db).Prune(ctx, cfg.History.Retention); err != nil {
		logger.Warn("failed to prune cycle latency", "error", err)
	}
	return db, nil
}

// printRunSummary lists how often each alert was selected during the run.
func printRunSummary(ctx context.Context, store *sqlite.AlertStore, runID string) {
	history, err := store.GetHistoryForRun(ctx, runID, 0)
	if err != nil {
		logger.Warn("failed to read run history", "error", err)
		return
	}

	counts := make(map[string]int)
	var order []string
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		if t.Cleared() {
			continue
		}
		if counts[t.AlertType] == 0 {
			order = append(order, t.AlertType)
		}
		counts[t.AlertType]++
	}
	if len(order) == 0 {
		return
	}

	fmt.Println("alerts shown:")
	for _, alertType := range order {
		fmt.Printf("  %s %d\n", pad(alertType, 40), counts[alertType])
	}
}

func printTransition(r controls.Result) {
	t := r.Transition
	if jsonOutput {
		data, err := json.Marshal(t)
		if err != nil {
			logger.Warn("failed to encode transition", "error", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	cycle := mutedFormat(fmt.Sprintf("%8d", t.Cycle))
	if t.Cleared() {
		fmt.Printf("%s  %s\n", cycle, mutedFormat(t.Describe()))
		return
	}
	fmt.Printf("%s  %s  %s %s  %s\n",
		cycle,
		t.Describe(),
		formatPriority(t.Priority),
		formatStatus(t.Status),
		truncate(alertText(t.Text1, t.Text2), 60))
}
