package halo

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidColor is returned by ParseHex for malformed color strings.
var ErrInvalidColor = errors.New("halo: invalid color")

// RGBA represents a straight-alpha color with red, green, blue, and alpha
// components. Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Default colors of the overlay.
var (
	// DefaultBackground is the translucent black painted over every output.
	DefaultBackground = RGBA{R: 0, G: 0, B: 0, A: 0xbf / 255.0}

	// DefaultIndicator is the translucent white blended under the pointer.
	DefaultIndicator = RGBA{R: 1, G: 1, B: 1, A: 0x3f / 255.0}
)

// RGBA implements color.Color. The returned values are alpha-premultiplied.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	pr, pg, pb, pa := c.Premul()
	return uint32(pr) * 0x101, uint32(pg) * 0x101, uint32(pb) * 0x101, uint32(pa) * 0x101
}

// Premul returns the color as premultiplied 8-bit components, the layout
// stored in ARGB8888 buffers.
func (c RGBA) Premul() (r, g, b, a uint8) {
	a8 := to8(c.A)
	return to8(c.R * c.A), to8(c.G * c.A), to8(c.B * c.A), a8
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// ParseHex parses a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without a
// leading '#'. Colors without an alpha component are opaque.
func ParseHex(hex string) (RGBA, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(s) {
	case 3, 4:
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
		if len(s) == 4 {
			ok = ok && parseHex(s[3:4], &a)
			a *= 17
		}
	case 6, 8:
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
		if len(s) == 8 {
			ok = ok && parseHex(s[6:8], &a)
		}
	default:
		ok = false
	}
	if !ok {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// String returns the color as "#rrggbbaa".
func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

// parseHex accumulates hex digits of s into val.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// to8 converts a [0, 1] component to a rounded byte.
func to8(x float64) uint8 {
	v := x*255 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
