// Package logs reads back the JSON log file written by the logging package.
//
// Tail returns the last lines of the file or the lines appended after an
// offset, optionally waiting for new output. Entries decode those lines and
// Filter narrows them to one capture, command, or minimum level for
// `driller logs`.
package logs
