package config

import (
	"errors"
	"fmt"

	"driller/internal/palette"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateView(); err != nil {
		return err
	}
	if err := c.validateChannels(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateView() error {
	if c.View.FramesInView < 1 {
		return errors.New("view.frames_in_view must be positive")
	}
	if c.View.BarWidth <= 0 {
		return errors.New("view.bar_width must be positive")
	}
	if c.View.Height <= 0 {
		return errors.New("view.height must be positive")
	}
	if c.View.PointHeight <= 0 || c.View.PointHeight > c.View.Height {
		return errors.New("view.point_height must be positive and no larger than view.height")
	}
	if c.View.MaxValue < 0 {
		return errors.New("view.max_value must not be negative")
	}
	return nil
}

func (c *Config) validateChannels() error {
	for name, color := range c.Channels.Colors {
		if _, err := palette.ParseHex(color); err != nil {
			return fmt.Errorf("channels.colors.%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
