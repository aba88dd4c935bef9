package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if *cfg.Defaults.Volume != 100 {
		t.Errorf("default volume = %d, want 100", *cfg.Defaults.Volume)
	}
	if cfg.Defaults.Repeat != "off" {
		t.Errorf("default repeat = %q, want %q", cfg.Defaults.Repeat, "off")
	}
	if cfg.TUI.Theme != "auto" {
		t.Errorf("default theme = %q, want %q", cfg.TUI.Theme, "auto")
	}
	if len(cfg.Library.Extensions) == 0 {
		t.Error("default extensions should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[library]
music_dir = "/music"
watch = true

[defaults]
volume = 40
repeat = "all"

[tui]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Library.MusicDir != "/music" {
		t.Errorf("music_dir = %q, want %q", cfg.Library.MusicDir, "/music")
	}
	if !cfg.Library.Watch {
		t.Error("watch = false, want true")
	}
	if *cfg.Defaults.Volume != 40 {
		t.Errorf("volume = %d, want 40", *cfg.Defaults.Volume)
	}
	if cfg.Defaults.Repeat != "all" {
		t.Errorf("repeat = %q, want %q", cfg.Defaults.Repeat, "all")
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("theme = %q, want %q", cfg.TUI.Theme, "dark")
	}
	// Unset values fall back to defaults.
	if cfg.TUI.RefreshInterval != 1000 {
		t.Errorf("refresh_interval = %d, want default 1000", cfg.TUI.RefreshInterval)
	}
}

func TestLoadFromKeepsExplicitZeroVolume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[defaults]
volume = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	// An explicit 0 means muted; only an absent key takes the default.
	if *cfg.Defaults.Volume != 0 {
		t.Errorf("volume = %d, want explicit 0 preserved", *cfg.Defaults.Volume)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VINYL_MUSIC_DIR", "/env/music")
	t.Setenv("VINYL_VOLUME", "25")
	t.Setenv("VINYL_TUI_THEME", "light")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Library.MusicDir != "/env/music" {
		t.Errorf("music_dir = %q, want env override", cfg.Library.MusicDir)
	}
	if *cfg.Defaults.Volume != 25 {
		t.Errorf("volume = %d, want 25", *cfg.Defaults.Volume)
	}
	if cfg.TUI.Theme != "light" {
		t.Errorf("theme = %q, want %q", cfg.TUI.Theme, "light")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"volume too high", func(c *Config) { v := 150; c.Defaults.Volume = &v }, true},
		{"bad repeat", func(c *Config) { c.Defaults.Repeat = "twice" }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad extension", func(c *Config) { c.Library.Extensions = []string{"mp3"} }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"negative refresh", func(c *Config) { c.TUI.RefreshInterval = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
