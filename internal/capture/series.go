package capture

import (
	"context"
	"fmt"

	"driller/internal/aggregator"
	"driller/internal/annotations"
	"driller/internal/palette"
)

// Series is the stored samples of one channel. It borrows the provider for
// the channel's enabled flag and color, so configuration changes show up on
// the next repaint without reloading.
type Series struct {
	Channel  string
	CRC      uint32
	values   map[int64]float64
	maxValue float64
	provider *annotations.Provider
}

var _ aggregator.Aggregator = (*Series)(nil)

// ValueAtFrame returns the sample at frame, or zero when none was recorded.
func (s *Series) ValueAtFrame(frame int64) float64 {
	return s.values[frame]
}

// Color returns the channel color from the provider.
func (s *Series) Color() palette.Color {
	return s.provider.ColorForChannel(s.Channel)
}

// IsActive reports whether the channel is enabled.
func (s *Series) IsActive() bool {
	return s.provider.IsChannelEnabled(s.Channel)
}

// Len returns the number of recorded samples.
func (s *Series) Len() int { return len(s.values) }

// Max returns the largest recorded sample, or zero.
func (s *Series) Max() float64 { return s.maxValue }

// Aggregators adapts series for channelview.New.
func Aggregators(series []*Series) []aggregator.Aggregator {
	out := make([]aggregator.Aggregator, len(series))
	for i, s := range series {
		out[i] = s
	}
	return out
}

// MaxValue returns the largest sample across series.
func MaxValue(series []*Series) float64 {
	var m float64
	for _, s := range series {
		m = max(m, s.maxValue)
	}
	return m
}

// LoadSeries reads every channel of the capture in stored order, registering
// each channel with provider.
func (s *Store) LoadSeries(ctx context.Context, id string, provider *annotations.Provider) ([]*Series, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT position, name, crc FROM channels WHERE capture_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	var (
		series     []*Series
		byPosition = make(map[int]*Series)
	)
	for rows.Next() {
		var (
			position int
			name     string
			crc      int64
		)
		if err := rows.Scan(&position, &name, &crc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		entry := &Series{
			Channel:  name,
			CRC:      uint32(crc),
			values:   make(map[int64]float64),
			provider: provider,
		}
		series = append(series, entry)
		byPosition[position] = entry
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	rows.Close()

	for _, entry := range series {
		provider.NotifyOfChannelExistence(entry.Channel)
	}

	samples, err := s.db.QueryContext(ctx, `SELECT channel, frame, value FROM samples WHERE capture_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	defer samples.Close()
	for samples.Next() {
		var (
			position int
			frame    int64
			value    float64
		)
		if err := samples.Scan(&position, &frame, &value); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		entry, ok := byPosition[position]
		if !ok {
			continue
		}
		entry.values[frame] = value
		entry.maxValue = max(entry.maxValue, value)
	}
	if err := samples.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return series, nil
}
