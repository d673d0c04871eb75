// Package annotations stores the textual markers attached to a capture's
// timeline and the per-channel display configuration.
//
// A Provider accumulates annotations in arrival order. Finalize produces an
// immutable Index that answers "first annotation at frame" and "annotation for
// event" lookups; the provider drops its index on every mutation, so a caller
// can never query an index that is out of date with the annotations it holds.
//
// Channel configuration (enabled flag and color) is keyed by the CRC-32 of the
// folded channel name and survives Clear, so settings persist across capture
// sessions.
package annotations
