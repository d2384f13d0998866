package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// DataDir is where the JSON state files live. Empty means
	// ~/.local/share/devtimesheet (or XDG_DATA_HOME).
	DataDir string `yaml:"data_dir"`

	// Theme is the catppuccin flavor used when preferences don't set one
	// (latte, frappe, macchiato, mocha)
	Theme string `yaml:"theme"`

	// SoundEnabled is the default for the hourly bell preference
	SoundEnabled bool `yaml:"sound_enabled"`

	// AlertIntervalSeconds spaces the audible alerts while the timer runs
	AlertIntervalSeconds int64 `yaml:"alert_interval_seconds"`

	// ReportReminderDays is how long after the last report the startup
	// reminder fires
	ReportReminderDays int `yaml:"report_reminder_days"`

	// ExportDir is where XLSX exports and backups are written. Empty means
	// the current directory.
	ExportDir string `yaml:"export_dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme:                "mocha",
		SoundEnabled:         true,
		AlertIntervalSeconds: 3600,
		ReportReminderDays:   7,
	}
}

// ResolveDataDir returns the configured data directory, falling back to the
// XDG data home.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "devtimesheet")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "devtimesheet")
}

// Load reads the config from a YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.AlertIntervalSeconds <= 0 {
		cfg.AlertIntervalSeconds = 3600
	}
	if cfg.ReportReminderDays <= 0 {
		cfg.ReportReminderDays = 7
	}

	return cfg, nil
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	// Check in order: current dir, ~/.config/devtimesheet/, XDG_CONFIG_HOME
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "devtimesheet", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "devtimesheet", "config.yaml"))
	}

	for _, path := range paths {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil {
			return Load(cleanPath)
		}
	}

	return DefaultConfig(), nil
}
