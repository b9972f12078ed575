package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/eventarb/internal/config"
	"github.com/willibrandon/eventarb/internal/events"
	"github.com/willibrandon/eventarb/internal/ipc"
	"github.com/willibrandon/eventarb/internal/logger"
)

// newSnapshotCmd creates the snapshot subcommand.
func newSnapshotCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Query a running loop for its latest cycle",
		Long: `Fetch the latest published cycle from a running loop over IPC and rebuild
the event view locally: active events, which event types are present, and
the alerts that surfaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(timeout, func(ctx context.Context, cfg *config.Config, client *ipc.Client) error {
				registry, err := loadRegistry(cfg)
				if err != nil {
					return err
				}

				agg, snap, err := client.Rebuild(ctx, registry)
				if err != nil {
					return err
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				}

				fmt.Printf("%s cycle %d %s\n", boldFormat("run "+snap.RunID), snap.Cycle,
					mutedFormat("("+humanize.Time(snap.At)+")"))

				names := make([]string, 0, agg.Len())
				for _, id := range agg.Names() {
					names = append(names, registry.Name(id))
				}
				fmt.Printf("\nActive events (%d): %s\n", len(names), strings.Join(names, ", "))

				fmt.Println("\nEvent types:")
				for _, t := range events.AllEventTypes {
					mark := mutedFormat("-")
					if agg.HasType(t) {
						mark = goodFormat("x")
					}
					fmt.Printf("  [%s] %s\n", mark, t)
				}

				fmt.Printf("\nAlerts (%d):\n", len(snap.Alerts))
				for _, a := range snap.Alerts {
					marker := " "
					if snap.Selected != nil && a.AlertType == snap.Selected.AlertType {
						marker = criticalFormat(">")
					}
					fmt.Printf(" %s %s  %s  %s\n", marker, pad(a.AlertType, 40),
						formatPriority(a.Priority), truncate(alertText(a.Text1, a.Text2), 50))
				}
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "IPC call timeout")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

// newStatusCmd creates the status subcommand.
func newStatusCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(timeout, func(ctx context.Context, _ *config.Config, client *ipc.Client) error {
				status, err := client.Status(ctx)
				if err != nil {
					return err
				}

				if jsonOutput {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(status)
				}
				printStatus(status)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "IPC call timeout")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func printStatus(status *ipc.StatusResult) {
	fmt.Printf("eventarb run %s\n", boldFormat(status.RunID))
	fmt.Printf("  PID:        %d\n", status.PID)
	fmt.Printf("  Version:    %s\n", status.Version)
	fmt.Printf("  Uptime:     %s\n", time.Duration(status.UptimeSeconds)*time.Second)
	fmt.Printf("  Cycle:      %s\n", humanize.Comma(int64(status.Cycle)))
	if status.CurrentAlert != "" {
		fmt.Printf("  Displayed:  %s\n", status.CurrentAlert)
	} else {
		fmt.Printf("  Displayed:  %s\n", mutedFormat("(none)"))
	}
	fmt.Printf("  Latency:    avg %s, max %s over %d cycles\n",
		status.Latency.Average, status.Latency.Max, status.Latency.Samples)

	warn := fmt.Sprintf("%d warnings", status.WarnCount)
	errs := fmt.Sprintf("%d errors", status.ErrorCount)
	if status.WarnCount > 0 {
		warn = warningFormat(warn)
	}
	if status.ErrorCount > 0 {
		errs = criticalFormat(errs)
	}
	fmt.Printf("  Logs:       %s, %s\n", warn, errs)

	for _, e := range status.RecentLogs {
		fmt.Printf("    %s\n", mutedFormat(e.Format()))
	}
}

// withClient connects to the configured IPC socket for the duration of fn.
func withClient(timeout time.Duration, fn func(ctx context.Context, cfg *config.Config, client *ipc.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	client, err := ipc.NewClient(cfg.IPC.Path)
	if err != nil {
		return fmt.Errorf("is eventarb run active? %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return fn(ctx, cfg, client)
}
