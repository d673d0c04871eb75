package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"startup", "startup"},
		{"  level 3: boss fight  ", "level_3-_boss_fight"},
		{"a/b\\c", "a-b-c"},
		{`what?"<x>|`, "whatx"},
		{"..hidden", "hidden"},
		{"tab\there\x00", "tab_here"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNameFor(t *testing.T) {
	if got := FileNameFor("boss fight", "yaml"); got != "boss_fight.yaml" {
		t.Fatalf("got %q", got)
	}
	if got := FileNameFor("???", ".yaml"); got != "capture.yaml" {
		t.Fatalf("got %q", got)
	}
}
