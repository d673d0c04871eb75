package capture

import (
	"context"
	"fmt"

	"driller/internal/annotations"
	"driller/internal/config"
	"driller/internal/palette"
)

// ChannelNames lists the distinct channel names across every capture in
// first-seen order.
func (s *Store) ChannelNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT ch.name, ch.crc FROM channels ch
		JOIN captures c ON c.id = ch.capture_id
		ORDER BY c.created_at, ch.position`)
	if err != nil {
		return nil, fmt.Errorf("list channel names: %w", err)
	}
	defer rows.Close()

	var names []string
	seen := make(map[int64]struct{})
	for rows.Next() {
		var (
			name string
			crc  int64
		)
		if err := rows.Scan(&name, &crc); err != nil {
			return nil, fmt.Errorf("scan channel name: %w", err)
		}
		if _, ok := seen[crc]; ok {
			continue
		}
		seen[crc] = struct{}{}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ConfigureChannels layers channel configuration onto provider for the
// channels it already knows: the config file first, then persisted
// settings. Persisted settings for channels the provider has not seen are
// skipped.
func (s *Store) ConfigureChannels(ctx context.Context, provider *annotations.Provider, cfg *config.Config) error {
	if cfg != nil {
		for name, hex := range cfg.Channels.Colors {
			color, err := palette.ParseHex(hex)
			if err != nil {
				return fmt.Errorf("channels.colors.%s: %w", name, err)
			}
			provider.SetDefaultColor(name, color)
		}
		for _, name := range cfg.Channels.Disabled {
			if provider.HasChannel(name) {
				provider.SetChannelEnabled(name, false)
			}
		}
	}

	persisted, err := s.LoadChannelSettings(ctx)
	if err != nil {
		return err
	}
	relevant := persisted[:0]
	for _, setting := range persisted {
		if provider.HasChannel(setting.Name) {
			relevant = append(relevant, setting)
		}
	}
	provider.ApplyChannelSettings(relevant)
	return nil
}

// SaveChannel persists provider's current configuration of name.
func (s *Store) SaveChannel(ctx context.Context, provider *annotations.Provider, name string) error {
	crc := annotations.ChannelCRC(name)
	for _, setting := range provider.ChannelSettings() {
		if setting.CRC == crc {
			return s.SaveChannelSettings(ctx, []annotations.ChannelSetting{setting})
		}
	}
	return fmt.Errorf("%w: channel %q", ErrNotFound, name)
}
