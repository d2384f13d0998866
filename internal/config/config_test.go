package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != "mocha" {
		t.Errorf("expected default theme mocha, got %q", cfg.Theme)
	}
	if !cfg.SoundEnabled {
		t.Error("expected sound enabled by default")
	}
	if cfg.AlertIntervalSeconds != 3600 {
		t.Errorf("expected 3600s alert interval, got %d", cfg.AlertIntervalSeconds)
	}
	if cfg.ReportReminderDays != 7 {
		t.Errorf("expected 7 day report reminder, got %d", cfg.ReportReminderDays)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `theme: latte
sound_enabled: false
alert_interval_seconds: 1800
export_dir: /tmp/reports
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Theme != "latte" {
		t.Errorf("expected theme latte, got %q", cfg.Theme)
	}
	if cfg.SoundEnabled {
		t.Error("expected sound disabled")
	}
	if cfg.AlertIntervalSeconds != 1800 {
		t.Errorf("expected 1800s alert interval, got %d", cfg.AlertIntervalSeconds)
	}
	if cfg.ExportDir != "/tmp/reports" {
		t.Errorf("expected export dir /tmp/reports, got %q", cfg.ExportDir)
	}

	// Unset reminder days fall back to the default
	if cfg.ReportReminderDays != 7 {
		t.Errorf("expected reminder days to default to 7, got %d", cfg.ReportReminderDays)
	}
}

func TestLoadClampsInvalidInterval(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := "alert_interval_seconds: -60\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AlertIntervalSeconds != 3600 {
		t.Errorf("expected invalid interval to reset to 3600, got %d", cfg.AlertIntervalSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load() should not error for missing file, got: %v", err)
	}

	// Should return defaults
	if cfg.Theme != "mocha" || cfg.AlertIntervalSeconds != 3600 {
		t.Error("Should return default config for missing file")
	}
}

func TestResolveDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/srv/timesheet"}
	if got := cfg.ResolveDataDir(); got != "/srv/timesheet" {
		t.Errorf("expected explicit data dir, got %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	cfg = &Config{}
	if got := cfg.ResolveDataDir(); got != filepath.Join("/tmp/xdg", "devtimesheet") {
		t.Errorf("expected XDG data dir, got %q", got)
	}
}
