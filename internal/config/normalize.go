package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeView()
	c.normalizeChannels()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("DRILLER_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeView() {
	if c.View.FramesInView == 0 {
		c.View.FramesInView = defaultFramesInView
	}
	if c.View.BarWidth == 0 {
		c.View.BarWidth = defaultBarWidth
	}
	if c.View.Height == 0 {
		c.View.Height = defaultHeight
	}
	if c.View.PointHeight == 0 {
		c.View.PointHeight = defaultPointHeight
	}
}

func (c *Config) normalizeChannels() {
	colors := make(map[string]string, len(c.Channels.Colors))
	for name, color := range c.Channels.Colors {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		colors[name] = strings.TrimSpace(color)
	}
	c.Channels.Colors = colors

	disabled := make([]string, 0, len(c.Channels.Disabled))
	seen := make(map[string]struct{}, len(c.Channels.Disabled))
	for _, name := range c.Channels.Disabled {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		disabled = append(disabled, name)
	}
	c.Channels.Disabled = disabled
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
