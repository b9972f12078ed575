package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/eventarb/internal/catalog"
	"github.com/willibrandon/eventarb/internal/config"
	"github.com/willibrandon/eventarb/internal/events"
	"github.com/willibrandon/eventarb/internal/logger"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "eventarb",
		Short: "Event-to-alert arbitration for a vehicle control loop",
		Long: `eventarb resolves the events raised on each control cycle into the alerts
shown to the driver, picks the one to display, and publishes the result.

  eventarb run scenario.yaml       Replay a scenario through the control loop
  eventarb registry                Show the event registry
  eventarb history                 List recorded alert transitions
  eventarb history export          Export alert history as JSON Lines
  eventarb snapshot                Query a running loop for its latest cycle
  eventarb status                  Show the status of a running loop`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/eventarb/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newRegistryCmd(),
		newHistoryCmd(),
		newSnapshotCmd(),
		newStatusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initializes the logger from it.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel()
	if debug {
		level = logger.LevelDebug
	}
	logger.InitLogger(level, cfg.Log.Path)
	if debug {
		fmt.Fprintf(os.Stderr, "Debug mode: Logs written to %s\n", cfg.Log.Path)
		logger.Debug("eventarb starting", "version", version, "config", configPath)
	}

	return cfg, nil
}

// loadRegistry returns the built-in catalog, merged with the configured
// registry file when there is one.
func loadRegistry(cfg *config.Config) (*events.Registry, error) {
	opts := cfg.Catalog.Options()
	if cfg.Registry.Path == "" {
		return catalog.Default(opts)
	}

	reg, err := catalog.Load(cfg.Registry.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("loading registry %s: %w", cfg.Registry.Path, err)
	}
	logger.Debug("registry loaded", "path", cfg.Registry.Path, "events", reg.Len())
	return reg, nil
}
