package textutil

import (
	"strings"
	"unicode"
)

const fallbackFileName = "capture"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in name. Path
// separators, colons, and asterisks become dashes, other unsafe characters
// and control characters are dropped, and runs of whitespace collapse to a
// single underscore. Leading dots are stripped so the result is never hidden.
func SanitizeFileName(name string) string {
	name = fileNameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimLeft(name, ".")
}

// FileNameFor returns a safe file name for name with ext appended. Names
// that sanitize to nothing fall back to "capture".
func FileNameFor(name, ext string) string {
	base := SanitizeFileName(name)
	if base == "" {
		base = fallbackFileName
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}
