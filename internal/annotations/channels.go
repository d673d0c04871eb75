package annotations

import (
	"hash/crc32"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"driller/internal/logging"
	"driller/internal/palette"
)

// ChannelCRC returns the identity key of a channel name: CRC-32 (IEEE) of the
// NFC-normalized, case-folded name. Distinct names may collide; the registry
// logs collisions but otherwise treats colliding names as one channel.
func ChannelCRC(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(foldName(name)))
}

func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

// ChannelSetting is the persisted configuration of one channel.
type ChannelSetting struct {
	CRC         uint32
	Name        string
	Enabled     bool
	Color       palette.Color
	CustomColor bool
}

type channelState struct {
	name         string
	enabled      bool
	color        palette.Color
	defaultColor palette.Color
	custom       bool
}

// channelRegistry interns channel names by CRC and keeps their configuration.
type channelRegistry struct {
	logger   *slog.Logger
	byCRC    map[uint32]*channelState
	order    []uint32
	defaults map[uint32]palette.Color
}

func newChannelRegistry(logger *slog.Logger) *channelRegistry {
	return &channelRegistry{
		logger:   logger,
		byCRC:    make(map[uint32]*channelState),
		defaults: make(map[uint32]palette.Color),
	}
}

func (r *channelRegistry) notify(name string) *channelState {
	crc := ChannelCRC(name)
	if state, ok := r.byCRC[crc]; ok {
		if foldName(state.name) != foldName(name) {
			r.logger.Warn("channel crc collision",
				logging.String("channel", name),
				logging.String("interned_as", state.name),
				logging.Uint64("crc", uint64(crc)),
			)
		}
		return state
	}
	color, ok := r.defaults[crc]
	if !ok {
		color = palette.Default(len(r.order))
	}
	state := &channelState{
		name:         name,
		enabled:      true,
		color:        color,
		defaultColor: color,
	}
	r.byCRC[crc] = state
	r.order = append(r.order, crc)
	r.logger.Debug("channel registered", logging.String("channel", name), logging.String("color", color.Hex()))
	return state
}

func (r *channelRegistry) lookup(name string) (*channelState, bool) {
	state, ok := r.byCRC[ChannelCRC(name)]
	return state, ok
}
