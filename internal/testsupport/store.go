package testsupport

import (
	"context"
	"testing"

	"driller/internal/capture"
	"driller/internal/config"
	"driller/internal/logging"
)

// MustOpenStore opens a capture.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *capture.Store {
	t.Helper()

	store, err := capture.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("capture.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewCapture stores the sample script for tests using the provided store.
func NewCapture(t testing.TB, store *capture.Store, name string) *capture.Capture {
	t.Helper()

	script := SampleScript(name)
	c, err := store.Create(context.Background(), script)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return c
}
