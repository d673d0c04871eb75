// Package timeline draws the cached window of a channel view as text.
//
// Each cached frame is one character column. Merged data points are placed
// on Rows text rows scaled from their bounds, with a glyph per render
// style; a marker row flags frames carrying annotations and a ruler labels
// frame numbers. Snapshot exposes the same window as plain data for JSON
// output.
package timeline
