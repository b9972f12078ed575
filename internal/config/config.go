// Package config loads the eventarb configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/catalog"
	"github.com/willibrandon/eventarb/internal/ipc"
	"github.com/willibrandon/eventarb/internal/logger"
)

// Config represents the root configuration structure.
type Config struct {
	Control  ControlConfig  `mapstructure:"control"`
	Vehicle  VehicleConfig  `mapstructure:"vehicle"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Registry RegistryConfig `mapstructure:"registry"`
	IPC      IPCConfig      `mapstructure:"ipc"`
	History  HistoryConfig  `mapstructure:"history"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// ControlConfig holds cycle driver settings.
type ControlConfig struct {
	Metric bool `mapstructure:"metric"`
}

// VehicleConfig describes the vehicle handed to dynamic alert factories.
type VehicleConfig struct {
	CarName        string  `mapstructure:"car_name"`
	MinEnableSpeed float64 `mapstructure:"min_enable_speed"` // m/s
	MinSteerSpeed  float64 `mapstructure:"min_steer_speed"`  // m/s
}

// Params converts the section to alerts.VehicleParams.
func (v VehicleConfig) Params() alerts.VehicleParams {
	return alerts.VehicleParams{
		CarName:        v.CarName,
		MinEnableSpeed: v.MinEnableSpeed,
		MinSteerSpeed:  v.MinSteerSpeed,
	}
}

// CatalogConfig holds build information shown by the startup alert.
type CatalogConfig struct {
	Branch string `mapstructure:"branch"`
	Replay bool   `mapstructure:"replay"`
}

// Options converts the section to catalog.Options.
func (c CatalogConfig) Options() catalog.Options {
	return catalog.Options{Branch: c.Branch, Replay: c.Replay}
}

// RegistryConfig points at an optional YAML registry overlay.
type RegistryConfig struct {
	Path string `mapstructure:"path"` // built-in catalog only if empty
}

// IPCConfig holds snapshot socket configuration.
type IPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HistoryConfig holds alert history storage configuration.
type HistoryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention"`
}

// MetricsConfig holds the prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Load loads the configuration from the default locations.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific path.
// If configPath is empty, it searches default locations; a missing file there
// is not an error.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvPrefix("EVENTARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "eventarb"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "eventarb"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Registry.Path = expandPath(cfg.Registry.Path)
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if cfg.IPC.Path == "" {
		cfg.IPC.Path = ipc.DefaultSocketPath
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = logger.DefaultPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults sets default configuration values.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("control.metric", true)

	v.SetDefault("vehicle.car_name", "")
	v.SetDefault("vehicle.min_enable_speed", 0.0)
	v.SetDefault("vehicle.min_steer_speed", 0.0)

	v.SetDefault("catalog.branch", "")
	v.SetDefault("catalog.replay", false)

	v.SetDefault("registry.path", "")

	v.SetDefault("ipc.enabled", true)
	v.SetDefault("ipc.path", ipc.DefaultSocketPath)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.retention", "720h") // 30 days

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", "127.0.0.1:9108")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Vehicle.MinEnableSpeed < 0 {
		return fmt.Errorf("vehicle.min_enable_speed must not be negative, got %v", c.Vehicle.MinEnableSpeed)
	}
	if c.Vehicle.MinSteerSpeed < 0 {
		return fmt.Errorf("vehicle.min_steer_speed must not be negative, got %v", c.Vehicle.MinSteerSpeed)
	}

	if c.IPC.Enabled && c.IPC.Path == "" {
		return fmt.Errorf("ipc.path is required when ipc is enabled")
	}

	if c.History.Enabled {
		if c.History.Path == "" {
			return fmt.Errorf("history.path is required when history is enabled")
		}
		if c.History.Retention < time.Hour {
			return fmt.Errorf("history.retention must be at least 1h, got %v", c.History.Retention)
		}
	}

	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen must be host:port, got %q", c.Metrics.Listen)
		}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// LogLevel returns the parsed log level. Validate has already rejected
// unknown names.
func (c *Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// DefaultHistoryPath returns ~/.config/eventarb/history.db.
func DefaultHistoryPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "eventarb", "history.db")
	}
	return "history.db"
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
