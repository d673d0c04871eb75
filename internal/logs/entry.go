package logs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"driller/internal/logging"
)

// Entry is one decoded line of the JSON log.
type Entry struct {
	Time      string
	Level     string
	Message   string
	Component string
	CaptureID string
	Command   string
	Fields    map[string]any
}

// ParseEntry decodes a JSON log line. ok is false for lines that are not
// JSON objects.
func ParseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	take := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		delete(raw, key)
		s, _ := v.(string)
		return s
	}
	return Entry{
		Time:      take("ts"),
		Level:     take("level"),
		Message:   take("msg"),
		Component: take(logging.FieldComponent),
		CaptureID: take(logging.FieldCaptureID),
		Command:   take(logging.FieldCommand),
		Fields:    raw,
	}, true
}

// Format renders e on one line: time, level, component, message, then the
// remaining fields sorted by key.
func (e Entry) Format() string {
	var b strings.Builder
	if e.Time != "" {
		b.WriteString(e.Time)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	if e.CaptureID != "" {
		fmt.Fprintf(&b, " %s=%s", logging.FieldCaptureID, e.CaptureID)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	CaptureID string
	Command   string
	MinLevel  slog.Level
}

// Match reports whether e passes every set criterion. CaptureID matches as
// a prefix so short ids work.
func (f Filter) Match(e Entry) bool {
	if f.CaptureID != "" && !strings.HasPrefix(e.CaptureID, f.CaptureID) {
		return false
	}
	if f.Command != "" && !strings.Contains(e.Command, f.Command) {
		return false
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.Level)); err != nil {
		level = slog.LevelInfo
	}
	return level >= f.MinLevel
}

// Apply decodes lines and keeps the matching entries. Lines that are not
// JSON are dropped.
func (f Filter) Apply(lines []string) []Entry {
	var out []Entry
	for _, line := range lines {
		entry, ok := ParseEntry(line)
		if !ok || !f.Match(entry) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
