package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a non-premultiplied RGBA color parsed from a hex string.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors used for document defaults.
var (
	White = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black = Color{A: 0xff}
)

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading # is optional).
func ParseColor(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return Color{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

// ParsePalette parses every entry and drops the ones that are not colors.
func ParsePalette(entries []string) []Color {
	out := make([]Color, 0, len(entries))
	for _, e := range entries {
		if c, ok := ParseColor(e); ok {
			out = append(out, c)
		}
	}
	return out
}

// Hex returns the color as "#rrggbb", with alpha appended when not opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Lerp linearly interpolates between c and o, t in [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	t = ClampF(t, 0, 1)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{R: mix(c.R, o.R), G: mix(c.G, o.G), B: mix(c.B, o.B), A: mix(c.A, o.A)}
}

// MarshalText implements encoding.TextMarshaler so colors serialize as hex.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}
