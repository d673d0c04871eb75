package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"driller/internal/testsupport"
)

func newTestViewer(t *testing.T) (*viewerModel, *cliTestEnv) {
	t.Helper()
	env := setupCLITestEnv(t)
	testsupport.NewCapture(t, env.store, "alpha")

	session, err := env.store.OpenSession(context.Background(), "alpha", env.cfg)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	m := newViewerModel(context.Background(), env.cfg, session, false)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 16})
	return m, env
}

func press(m *viewerModel, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func cachedRange(t *testing.T, m *viewerModel) (int64, int64) {
	t.Helper()
	first, last, ok := m.view.CachedRange()
	if !ok {
		t.Fatal("expected a populated view")
	}
	return first, last
}

func TestViewerWindowFollowsCursor(t *testing.T) {
	m, _ := newTestViewer(t)

	if m.rows != 10 || m.framesInView != 10 {
		t.Fatalf("unexpected layout rows=%d frames=%d", m.rows, m.framesInView)
	}
	if first, last := cachedRange(t, m); first != 20 || last != 29 {
		t.Fatalf("expected initial window 20-29, got %d-%d", first, last)
	}

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 28 {
		t.Fatalf("expected cursor 28, got %d", m.cursor)
	}
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cursor != 29 {
		t.Fatalf("cursor should clamp to the last frame, got %d", m.cursor)
	}

	press(m, tea.KeyMsg{Type: tea.KeyHome})
	if first, last := cachedRange(t, m); m.cursor != 0 || first != 0 || last != 9 {
		t.Fatalf("expected cursor 0 in window 0-9, got %d in %d-%d", m.cursor, first, last)
	}

	press(m, runes("n"))
	if m.cursor != 10 {
		t.Fatalf("expected next annotation at frame 10, got %d", m.cursor)
	}
	if first, last := cachedRange(t, m); first != 1 || last != 10 {
		t.Fatalf("expected window to scroll to 1-10, got %d-%d", first, last)
	}
	if !strings.Contains(m.status, "▲ A") || !strings.Contains(m.status, "▲ B") {
		t.Fatalf("expected annotations in status, got %q", m.status)
	}

	press(m, runes("n"))
	press(m, runes("p"))
	if m.cursor != 10 {
		t.Fatalf("expected previous annotation at frame 10, got %d", m.cursor)
	}

	view := m.View()
	if !strings.Contains(view, "frame 10 of 0-29") {
		t.Fatalf("unexpected header in %q", view)
	}
	if !strings.Contains(view, "│") && !strings.Contains(view, "▲") {
		t.Fatalf("expected a cursor or annotation marker in %q", view)
	}
}

func TestViewerHoverDescribesPoint(t *testing.T) {
	m, _ := newTestViewer(t)

	// Frame 29 renders Rendering at value 5, the top row.
	if !strings.Contains(m.status, "Rendering = 5") {
		t.Fatalf("expected hover on the top row to hit Rendering, got %q", m.status)
	}
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.hoverRow != 1 || strings.Contains(m.status, "Rendering") {
		t.Fatalf("expected empty hover on row 1, got row %d status %q", m.hoverRow, m.status)
	}
	for range 20 {
		press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.hoverRow != m.rows-1 {
		t.Fatalf("hover row should clamp to %d, got %d", m.rows-1, m.hoverRow)
	}
}

func TestViewerToggleChannelPersists(t *testing.T) {
	m, env := newTestViewer(t)

	press(m, runes("2"))
	if m.session.Provider.IsChannelEnabled("Audio") {
		t.Fatal("expected Audio disabled")
	}
	if m.err != nil {
		t.Fatalf("unexpected error %v", m.err)
	}

	settings, err := env.store.LoadChannelSettings(context.Background())
	if err != nil {
		t.Fatalf("LoadChannelSettings: %v", err)
	}
	var found bool
	for _, s := range settings {
		if s.Name == "Audio" {
			found = true
			if s.Enabled {
				t.Fatal("expected persisted Audio disabled")
			}
		}
	}
	if !found {
		t.Fatal("expected Audio settings to be persisted")
	}

	press(m, runes("9"))
	if m.err != nil {
		t.Fatalf("out of range toggle should be ignored, got %v", m.err)
	}
}

func TestViewerReloadAndQuit(t *testing.T) {
	m, env := newTestViewer(t)

	if err := env.store.Remove(context.Background(), m.session.Capture.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	press(m, runes("r"))
	if m.err == nil {
		t.Fatal("expected reload of a removed capture to report an error")
	}
	if !strings.Contains(m.View(), "error:") {
		t.Fatal("expected the error in the status line")
	}

	cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
