package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driller/internal/capture"
)

// SampleScript returns a small two-channel capture spanning frames 0..29.
// Rendering has a sample on every frame; Audio only on frames 10..19. The
// annotations sit on frames 10 and 20.
func SampleScript(name string) *capture.Script {
	rendering := capture.Samples{}
	audio := capture.Samples{}
	for f := int64(0); f < 30; f++ {
		rendering[f] = float64(f%5 + 1)
		if f >= 10 && f < 20 {
			audio[f] = 2
		}
	}
	return &capture.Script{
		Name: name,
		Channels: []capture.ScriptChannel{
			{Name: "Rendering", Samples: rendering},
			{Name: "Audio", Samples: audio},
		},
		Annotations: []capture.ScriptAnnotation{
			{Event: 5, Frame: 10, Text: "A", Channel: "Rendering"},
			{Event: 6, Frame: 10, Text: "B", Channel: "Audio"},
			{Event: 7, Frame: 20, Text: "C", Channel: "Rendering"},
		},
	}
}

// WriteScript writes script as YAML to dir/<name>.yaml and returns the path.
func WriteScript(t testing.TB, dir string, script *capture.Script) string {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "name: %q\n", script.Name)
	if script.Begin != nil {
		fmt.Fprintf(&b, "begin: %d\n", *script.Begin)
	}
	if script.End != nil {
		fmt.Fprintf(&b, "end: %d\n", *script.End)
	}
	b.WriteString("channels:\n")
	for _, ch := range script.Channels {
		fmt.Fprintf(&b, "  - name: %q\n    samples:\n", ch.Name)
		for _, frame := range ch.Samples.Frames() {
			fmt.Fprintf(&b, "      %d: %g\n", frame, ch.Samples[frame])
		}
	}
	b.WriteString("annotations:\n")
	for _, a := range script.Annotations {
		fmt.Fprintf(&b, "  - {event: %d, frame: %d, text: %q, channel: %q}\n", a.Event, a.Frame, a.Text, a.Channel)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for script: %v", err)
	}
	path := filepath.Join(dir, script.Name+".yaml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	return path
}
