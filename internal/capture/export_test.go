package capture_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"driller/internal/capture"
	"driller/internal/testsupport"
)

func TestExportRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	original := testsupport.NewCapture(t, store, "roundtrip")
	exported, err := store.Export(ctx, original.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := testsupport.SampleScript("roundtrip")
	begin, end := int64(0), int64(29)
	want.Begin, want.End = &begin, &end
	if diff := cmp.Diff(want, exported); diff != "" {
		t.Fatalf("exported script mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := exported.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	parsed, err := capture.ParseScript(&buf)
	if err != nil {
		t.Fatalf("ParseScript of exported YAML: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(exported, parsed); diff != "" {
		t.Fatalf("YAML round trip mismatch (-want +got):\n%s", diff)
	}

	reimported, err := store.Create(ctx, parsed)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reimported.SampleCount != original.SampleCount || reimported.AnnotationCount != original.AnnotationCount ||
		reimported.BeginFrame != original.BeginFrame || reimported.EndFrame != original.EndFrame {
		t.Fatalf("reimported %+v differs from original %+v", reimported, original)
	}
}

func TestExportUnknownCapture(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Export(context.Background(), "missing"); !errors.Is(err, capture.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
