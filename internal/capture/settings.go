package capture

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driller/internal/annotations"
	"driller/internal/logging"
	"driller/internal/palette"
)

// SaveChannelSettings upserts the configuration of every given channel.
func (s *Store) SaveChannelSettings(ctx context.Context, settings []annotations.ChannelSetting) error {
	ctx = ensureContext(ctx)
	if len(settings) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(timestampLayout)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO channel_settings (crc, name, enabled, color, custom, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(crc) DO UPDATE SET
				name = excluded.name,
				enabled = excluded.enabled,
				color = excluded.color,
				custom = excluded.custom,
				updated_at = excluded.updated_at`)
		if err != nil {
			return fmt.Errorf("prepare channel settings upsert: %w", err)
		}
		defer stmt.Close()
		for _, setting := range settings {
			var color any
			if setting.CustomColor {
				color = setting.Color.Hex()
			}
			if _, err := stmt.ExecContext(ctx,
				int64(setting.CRC),
				setting.Name,
				boolToInt(setting.Enabled),
				color,
				boolToInt(setting.CustomColor),
				now,
			); err != nil {
				return fmt.Errorf("save channel %q: %w", setting.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("channel settings saved", logging.Int("channels", len(settings)))
	return nil
}

// LoadChannelSettings returns every persisted channel configuration ordered
// by name.
func (s *Store) LoadChannelSettings(ctx context.Context) ([]annotations.ChannelSetting, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT crc, name, enabled, color, custom FROM channel_settings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load channel settings: %w", err)
	}
	defer rows.Close()

	var settings []annotations.ChannelSetting
	for rows.Next() {
		var (
			crc     int64
			name    string
			enabled int
			color   sql.NullString
			custom  int
		)
		if err := rows.Scan(&crc, &name, &enabled, &color, &custom); err != nil {
			return nil, fmt.Errorf("scan channel setting: %w", err)
		}
		setting := annotations.ChannelSetting{
			CRC:         uint32(crc),
			Name:        name,
			Enabled:     enabled != 0,
			CustomColor: custom != 0,
		}
		if setting.CustomColor && color.Valid {
			parsed, err := palette.ParseHex(color.String)
			if err != nil {
				s.logger.Warn("ignoring stored channel color",
					logging.String("channel", name),
					logging.String("color", color.String),
					logging.Error(err),
				)
				setting.CustomColor = false
			} else {
				setting.Color = parsed
			}
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel settings: %w", err)
	}
	return settings, nil
}
