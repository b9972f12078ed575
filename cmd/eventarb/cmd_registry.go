package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/catalog"
	"github.com/willibrandon/eventarb/internal/events"
)

// newRegistryCmd creates the registry subcommand.
func newRegistryCmd() *cobra.Command {
	var filter string
	var factories bool

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Show the event registry",
		Long: `Show every registered event with the alert it produces for each event type.
Dynamic alerts are rendered with empty telemetry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if factories {
				for _, name := range catalog.FactoryNames() {
					fmt.Println(name)
				}
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			ctx := alerts.Context{Params: cfg.Vehicle.Params(), Metric: cfg.Control.Metric}
			fmt.Print(renderRegistry(registry, ctx, filter))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "event", "e", "", "only show events whose name contains this text")
	cmd.Flags().BoolVar(&factories, "factories", false, "list the dynamic factory names usable in registry files")

	return cmd
}

// renderRegistry draws the registry as a tree: events, then their event
// types in wire order.
func renderRegistry(registry *events.Registry, ctx alerts.Context, filter string) string {
	tree := treeprint.New()
	shown := 0

	for i, name := range registry.Names() {
		if filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
			continue
		}
		shown++

		id := events.EventID(i)
		branch := tree.AddBranch(fmt.Sprintf("%s %s", boldFormat(name), mutedFormat(fmt.Sprintf("#%d", i))))

		factories := registry.Lookup(id)
		types := registry.EventTypes(id)
		if len(types) == 0 {
			branch.AddNode(mutedFormat("(no alerts)"))
			continue
		}
		for _, t := range types {
			f := factories[t]
			a := f.Resolve(ctx)
			kind := ""
			if f.IsDynamic() {
				kind = mutedFormat(" dynamic")
			}
			branch.AddNode(fmt.Sprintf("%s%s  %s %s  %s",
				t, kind,
				formatPriority(a.Priority),
				formatStatus(a.Status),
				truncate(alertText(a.Text1, a.Text2), 60)))
		}
	}

	tree.SetValue(fmt.Sprintf("registry (%d of %d events)", shown, registry.Len()))
	return tree.String()
}
