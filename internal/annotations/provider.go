package annotations

import (
	"log/slog"

	"driller/internal/logging"
	"driller/internal/palette"
)

// Provider owns the annotations of the active capture and the channel
// configuration. It is not safe for concurrent use; one capture window owns
// one provider and views borrow it.
type Provider struct {
	logger   *slog.Logger
	pending  []Annotation
	index    *Index
	channels *channelRegistry
}

// NewProvider constructs an empty provider. A nil logger discards output.
func NewProvider(logger *slog.Logger) *Provider {
	logger = logging.NewComponentLogger(logger, "annotations")
	return &Provider{
		logger:   logger,
		channels: newChannelRegistry(logger),
	}
}

// AddAnnotation appends a to the pending sequence and registers its channel.
// The current index is dropped until the next Finalize.
func (p *Provider) AddAnnotation(a Annotation) {
	if a.ChannelCRC == 0 && a.ChannelName != "" {
		a.ChannelCRC = ChannelCRC(a.ChannelName)
	}
	p.pending = append(p.pending, a)
	p.index = nil
	if a.ChannelName != "" {
		p.channels.notify(a.ChannelName)
	}
}

// Finalize sorts the pending annotations by frame and builds the lookup
// index. The returned Index stays valid after later mutations; it simply no
// longer reflects them.
func (p *Provider) Finalize() *Index {
	if p.index != nil {
		return p.index
	}
	p.index = buildIndex(p.pending)
	p.logger.Debug("annotations finalized", logging.Int("count", p.index.Len()))
	return p.index
}

// Index returns the index built by the last Finalize. ok is false when the
// provider was mutated since.
func (p *Provider) Index() (*Index, bool) {
	return p.index, p.index != nil
}

// Len returns the number of annotations held, finalized or not.
func (p *Provider) Len() int { return len(p.pending) }

// Clear drops every annotation. Channel configuration is kept.
func (p *Provider) Clear() {
	p.pending = nil
	p.index = nil
}

// NotifyOfChannelExistence registers name if it has not been seen yet.
func (p *Provider) NotifyOfChannelExistence(name string) {
	p.channels.notify(name)
}

// KnownChannels lists channel names in registration order.
func (p *Provider) KnownChannels() []string {
	names := make([]string, 0, len(p.channels.order))
	for _, crc := range p.channels.order {
		names = append(names, p.channels.byCRC[crc].name)
	}
	return names
}

// HasChannel reports whether name (or a name sharing its CRC) is registered.
func (p *Provider) HasChannel(name string) bool {
	_, ok := p.channels.lookup(name)
	return ok
}

// SetChannelEnabled toggles whether name's data is shown, registering the
// channel when needed.
func (p *Provider) SetChannelEnabled(name string, enabled bool) {
	p.channels.notify(name).enabled = enabled
}

// IsChannelEnabled reports whether name is shown. Unknown channels are.
func (p *Provider) IsChannelEnabled(name string) bool {
	state, ok := p.channels.lookup(name)
	if !ok {
		return true
	}
	return state.enabled
}

// ColorForChannel returns the color assigned to name. Unknown channels get
// the neutral color.
func (p *Provider) ColorForChannel(name string) palette.Color {
	state, ok := p.channels.lookup(name)
	if !ok {
		return palette.Neutral
	}
	return state.color
}

// SetColorForChannel overrides name's color.
func (p *Provider) SetColorForChannel(name string, color palette.Color) {
	state := p.channels.notify(name)
	state.color = color
	state.custom = true
}

// ResetColorForChannel restores name's default color.
func (p *Provider) ResetColorForChannel(name string) {
	state, ok := p.channels.lookup(name)
	if !ok {
		return
	}
	state.color = state.defaultColor
	state.custom = false
}

// SetDefaultColor changes the color name starts with (and resets to). A
// channel whose color was customized keeps its custom color.
func (p *Provider) SetDefaultColor(name string, color palette.Color) {
	crc := ChannelCRC(name)
	p.channels.defaults[crc] = color
	if state, ok := p.channels.byCRC[crc]; ok {
		state.defaultColor = color
		if !state.custom {
			state.color = color
		}
	}
}

// ChannelSettings snapshots the configuration of every known channel in
// registration order.
func (p *Provider) ChannelSettings() []ChannelSetting {
	out := make([]ChannelSetting, 0, len(p.channels.order))
	for _, crc := range p.channels.order {
		state := p.channels.byCRC[crc]
		out = append(out, ChannelSetting{
			CRC:         crc,
			Name:        state.name,
			Enabled:     state.enabled,
			Color:       state.color,
			CustomColor: state.custom,
		})
	}
	return out
}

// ApplyChannelSettings loads persisted configuration, registering channels
// that have not been seen yet.
func (p *Provider) ApplyChannelSettings(settings []ChannelSetting) {
	for _, setting := range settings {
		state := p.channels.notify(setting.Name)
		state.enabled = setting.Enabled
		if setting.CustomColor {
			state.color = setting.Color
			state.custom = true
		}
	}
}
