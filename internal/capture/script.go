package capture

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"driller/internal/annotations"
)

// Script is the on-disk description of a capture.
//
//	name: startup
//	begin: 0      # optional, derived from the data when omitted
//	end: 240      # optional
//	channels:
//	  - name: Rendering
//	    samples: {10: 4.5, 11: 6}
//	annotations:
//	  - {event: 5, frame: 10, text: "shader compile", channel: Rendering}
type Script struct {
	Name        string             `yaml:"name"`
	Source      string             `yaml:"source,omitempty"`
	Begin       *int64             `yaml:"begin,omitempty"`
	End         *int64             `yaml:"end,omitempty"`
	Channels    []ScriptChannel    `yaml:"channels"`
	Annotations []ScriptAnnotation `yaml:"annotations"`
}

// ScriptChannel is one named series of frame samples.
type ScriptChannel struct {
	Name    string  `yaml:"name"`
	Samples Samples `yaml:"samples"`
}

// ScriptAnnotation is one annotation line.
type ScriptAnnotation struct {
	Event   int64  `yaml:"event"`
	Frame   int64  `yaml:"frame"`
	Text    string `yaml:"text"`
	Channel string `yaml:"channel,omitempty"`
}

// Samples maps frame to value. Keys may be written as integers or as
// quoted strings so JSON documents decode too.
type Samples map[int64]float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Samples) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: samples must be a mapping of frame to value", node.Line)
	}
	out := make(Samples, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		frame, err := strconv.ParseInt(strings.TrimSpace(key.Value), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: frame %q is not an integer", key.Line, key.Value)
		}
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("line %d: value for frame %d: %w", value.Line, frame, err)
		}
		if _, dup := out[frame]; dup {
			return fmt.Errorf("line %d: frame %d listed twice", key.Line, frame)
		}
		out[frame] = v
	}
	*s = out
	return nil
}

// Frames returns the sample frames in ascending order.
func (s Samples) Frames() []int64 {
	frames := make([]int64, 0, len(s))
	for f := range s {
		frames = append(frames, f)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i] < frames[j] })
	return frames
}

// ParseScript decodes and validates a capture script.
func ParseScript(r io.Reader) (*Script, error) {
	var script Script
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks names, frames, and values. Every failure wraps
// ErrInvalidScript.
func (s *Script) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScript)
	}
	if len(s.Channels) == 0 && len(s.Annotations) == 0 {
		return fmt.Errorf("%w: capture %q has no channels and no annotations", ErrInvalidScript, s.Name)
	}
	if s.Begin != nil && *s.Begin < 0 {
		return fmt.Errorf("%w: begin must not be negative", ErrInvalidScript)
	}
	if s.Begin != nil && s.End != nil && *s.End < *s.Begin {
		return fmt.Errorf("%w: end %d precedes begin %d", ErrInvalidScript, *s.End, *s.Begin)
	}

	seen := make(map[uint32]string, len(s.Channels))
	for i := range s.Channels {
		ch := &s.Channels[i]
		ch.Name = strings.TrimSpace(ch.Name)
		if ch.Name == "" {
			return fmt.Errorf("%w: channel %d has no name", ErrInvalidScript, i)
		}
		crc := annotations.ChannelCRC(ch.Name)
		if prior, ok := seen[crc]; ok {
			return fmt.Errorf("%w: channel %q duplicates %q", ErrInvalidScript, ch.Name, prior)
		}
		seen[crc] = ch.Name
		for frame, value := range ch.Samples {
			if err := s.checkFrame(frame); err != nil {
				return fmt.Errorf("%w: channel %q: %v", ErrInvalidScript, ch.Name, err)
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("%w: channel %q frame %d: value is not finite", ErrInvalidScript, ch.Name, frame)
			}
		}
	}

	for i := range s.Annotations {
		a := &s.Annotations[i]
		a.Channel = strings.TrimSpace(a.Channel)
		if a.Event < 0 {
			return fmt.Errorf("%w: annotation %d: event must not be negative", ErrInvalidScript, i)
		}
		if err := s.checkFrame(a.Frame); err != nil {
			return fmt.Errorf("%w: annotation %d: %v", ErrInvalidScript, i, err)
		}
	}
	return nil
}

func (s *Script) checkFrame(frame int64) error {
	if frame < 0 {
		return fmt.Errorf("frame %d is negative", frame)
	}
	if s.Begin != nil && frame < *s.Begin {
		return fmt.Errorf("frame %d precedes begin %d", frame, *s.Begin)
	}
	if s.End != nil && frame > *s.End {
		return fmt.Errorf("frame %d follows end %d", frame, *s.End)
	}
	return nil
}

// Bounds returns the capture frame range: the explicit begin/end when set,
// otherwise the smallest and largest frame mentioned anywhere.
func (s *Script) Bounds() (begin, end int64) {
	first := true
	observe := func(frame int64) {
		if first {
			begin, end = frame, frame
			first = false
			return
		}
		begin = min(begin, frame)
		end = max(end, frame)
	}
	for _, ch := range s.Channels {
		for frame := range ch.Samples {
			observe(frame)
		}
	}
	for _, a := range s.Annotations {
		observe(a.Frame)
	}
	if s.Begin != nil {
		begin = *s.Begin
		if first {
			end = begin
		}
	}
	if s.End != nil {
		end = *s.End
		if first && s.Begin == nil {
			begin = 0
		}
	}
	return begin, end
}
