package testsupport

import (
	"path/filepath"
	"testing"

	"driller/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithChannelColor sets a default color for a channel on the test config.
func WithChannelColor(name, hex string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Channels.Colors == nil {
			b.cfg.Channels.Colors = map[string]string{}
		}
		b.cfg.Channels.Colors[name] = hex
	}
}

// WithDisabledChannels hides the named channels by default.
func WithDisabledChannels(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Channels.Disabled = append(b.cfg.Channels.Disabled, names...)
	}
}

// WithFramesInView overrides the visible window size.
func WithFramesInView(frames int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.View.FramesInView = frames
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// WithLogLevel sets the configured log level.
func WithLogLevel(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Level = level
	}
}
