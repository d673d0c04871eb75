// Package capture persists recorded telemetry captures in SQLite and loads
// them into the annotation provider and channel view.
//
// A capture is a named session of per-frame channel samples plus the
// annotations raised while it was recorded. Captures arrive as YAML scripts
// through Import, which serializes writers with a lock file next to the
// database. Channel configuration (enabled flag and custom color) is stored
// per channel CRC so it survives across captures.
//
// The schema is managed by the embedded migrations under migrations/. A
// database written by a newer build is rejected with ErrSchemaMismatch.
package capture
