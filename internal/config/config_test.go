package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"driller/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DRILLER_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "driller")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "captures.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.View.FramesInView != config.Default().View.FramesInView {
		t.Fatalf("unexpected frames in view: %d", cfg.View.FramesInView)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "driller.toml")
	t.Setenv("DRILLER_DATA_DIR", "")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		View struct {
			FramesInView int     `toml:"frames_in_view"`
			MaxValue     float64 `toml:"max_value"`
		} `toml:"view"`
		Channels struct {
			Colors   map[string]string `toml:"colors"`
			Disabled []string          `toml:"disabled"`
		} `toml:"channels"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.View.FramesInView = 40
	custom.View.MaxValue = 16.6
	custom.Channels.Colors = map[string]string{" Rendering ": "#ff0000"}
	custom.Channels.Disabled = []string{"Audio", " Audio", ""}
	custom.Logging.Format = " JSON "

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.View.FramesInView != 40 || cfg.View.MaxValue != 16.6 {
		t.Fatalf("unexpected view section: %+v", cfg.View)
	}
	if cfg.View.BarWidth != config.Default().View.BarWidth {
		t.Fatalf("expected default bar width, got %v", cfg.View.BarWidth)
	}
	if cfg.Channels.Colors["Rendering"] != "#ff0000" {
		t.Fatalf("expected trimmed channel color key, got %v", cfg.Channels.Colors)
	}
	if len(cfg.Channels.Disabled) != 1 || cfg.Channels.Disabled[0] != "Audio" {
		t.Fatalf("expected deduplicated disabled list, got %v", cfg.Channels.Disabled)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "captures")
	t.Setenv("DRILLER_DATA_DIR", override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.DataDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"frames", func(c *config.Config) { c.View.FramesInView = -1 }, "frames_in_view"},
		{"point height", func(c *config.Config) { c.View.PointHeight = c.View.Height + 1 }, "point_height"},
		{"max value", func(c *config.Config) { c.View.MaxValue = -2 }, "max_value"},
		{"color", func(c *config.Config) { c.Channels.Colors = map[string]string{"Audio": "blue"} }, "channels.colors.Audio"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRILLER_DATA_DIR", "")
	var sample strings.Builder
	if err := config.WriteSample(&sample); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(sample.String()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.View.FramesInView != 120 {
		t.Fatalf("unexpected frames in view %d", cfg.View.FramesInView)
	}
}
