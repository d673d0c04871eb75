// Package palette defines the RGBA color value shared by channel configuration,
// aggregators, and the timeline renderer, plus the default channel palette.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit-per-component RGBA color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// ParseHex accepts "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func ParseHex(value string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("color %q: expected #rrggbb or #rrggbbaa", value)
	}
	rgb, err := colorful.Hex("#" + raw[:6])
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", value, err)
	}
	c := FromColorful(rgb)
	if len(raw) == 8 {
		alpha, err := strconv.ParseUint(raw[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: alpha: %w", value, err)
		}
		c.A = uint8(alpha)
	}
	return c, nil
}

// FromColorful converts an RGB color to an opaque Color.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Colorful returns the RGB components, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	hex := c.Colorful().Hex()
	if c.A != 0xff {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}

func (c Color) String() string { return c.Hex() }

// IsZero reports whether the color is the zero value (fully transparent black).
func (c Color) IsZero() bool { return c == Color{} }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var defaults = []Color{
	RGB(0x1f, 0x77, 0xb4),
	RGB(0xff, 0x7f, 0x0e),
	RGB(0x2c, 0xa0, 0x2c),
	RGB(0xd6, 0x27, 0x28),
	RGB(0x94, 0x67, 0xbd),
	RGB(0x8c, 0x56, 0x4b),
	RGB(0xe3, 0x77, 0xc2),
	RGB(0x7f, 0x7f, 0x7f),
	RGB(0xbc, 0xbd, 0x22),
	RGB(0x17, 0xbe, 0xcf),
}

// Default returns the i-th default channel color, wrapping around the palette.
func Default(i int) Color {
	if i < 0 {
		i = -i
	}
	return defaults[i%len(defaults)]
}

// Neutral is used for blocks stacked from several sources.
var Neutral = RGB(0xdd, 0xdd, 0xdd)

// Emphasis is used for the outline of highlighted stacked blocks.
var Emphasis = RGB(0xff, 0xff, 0xff)
