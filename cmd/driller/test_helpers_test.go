package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driller/internal/capture"
	"driller/internal/config"
	"driller/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *capture.Store
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DRILLER_DATA_DIR", "")
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithLogLevel("error")}, opts...)...)

	configPath := filepath.Join(homeDir, ".config", "driller", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenStore(t, cfg),
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\ndata_dir = %q\nlog_dir = %q\n\n", cfg.Paths.DataDir, cfg.Paths.LogDir)
	fmt.Fprintf(&b, "[view]\nframes_in_view = %d\n\n", cfg.View.FramesInView)
	fmt.Fprintf(&b, "[logging]\nlevel = %q\n", cfg.Logging.Level)
	if len(cfg.Channels.Colors) > 0 || len(cfg.Channels.Disabled) > 0 {
		b.WriteString("\n[channels]\n")
		if len(cfg.Channels.Disabled) > 0 {
			quoted := make([]string, len(cfg.Channels.Disabled))
			for i, name := range cfg.Channels.Disabled {
				quoted[i] = fmt.Sprintf("%q", name)
			}
			fmt.Fprintf(&b, "disabled = [%s]\n", strings.Join(quoted, ", "))
		}
		if len(cfg.Channels.Colors) > 0 {
			b.WriteString("\n[channels.colors]\n")
			for name, hex := range cfg.Channels.Colors {
				fmt.Fprintf(&b, "%q = %q\n", name, hex)
			}
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode json %q: %v", out, err)
	}
	return v
}
