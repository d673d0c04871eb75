// Command driller inspects recorded telemetry captures.
//
// Captures are imported from YAML scripts into a SQLite store under the
// configured data directory. Subcommands list and remove captures, query
// their annotations by frame or event, configure channel visibility and
// colors, print the frame timeline of a window, and open an interactive
// viewer that scrolls the window with the keyboard.
package main
