package logs_test

import (
	"log/slog"
	"strings"
	"testing"

	"driller/internal/logs"
)

const sampleLines = `{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"capture imported","component":"capture","capture_id":"0f3c9a2e-aaaa","command":"driller capture import","channels":2}
not json
{"ts":"2026-01-02T03:04:06Z","level":"debug","msg":"cache window updated","component":"channelview","capture_id":"77aa0000-bbbb","first":0}
{"ts":"2026-01-02T03:04:07Z","level":"warn","msg":"reload capture failed","capture_id":"0f3c9a2e-aaaa","command":"driller timeline"}`

func lines() []string {
	return strings.Split(sampleLines, "\n")
}

func TestParseEntryAndFormat(t *testing.T) {
	entry, ok := logs.ParseEntry(lines()[0])
	if !ok {
		t.Fatal("expected JSON line to parse")
	}
	if entry.Component != "capture" || entry.CaptureID != "0f3c9a2e-aaaa" || entry.Command != "driller capture import" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	want := "2026-01-02T03:04:05Z INFO  [capture] capture imported capture_id=0f3c9a2e-aaaa channels=2"
	if got := entry.Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	if _, ok := logs.ParseEntry("not json"); ok {
		t.Fatal("expected plain text to be rejected")
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter logs.Filter
		want   []string
	}{
		{"all", logs.Filter{MinLevel: slog.LevelDebug}, []string{"capture imported", "cache window updated", "reload capture failed"}},
		{"default level hides debug", logs.Filter{}, []string{"capture imported", "reload capture failed"}},
		{"capture prefix", logs.Filter{CaptureID: "0f3c", MinLevel: slog.LevelDebug}, []string{"capture imported", "reload capture failed"}},
		{"command", logs.Filter{Command: "timeline"}, []string{"reload capture failed"}},
		{"warn and up", logs.Filter{MinLevel: slog.LevelWarn}, []string{"reload capture failed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range tt.filter.Apply(lines()) {
				got = append(got, e.Message)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
