// Package config loads, normalizes, and validates driller configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DRILLER_DATA_DIR environment
// override. The Config type centralizes the capture database location, the
// timeline layout, default channel colors, and logging knobs.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
