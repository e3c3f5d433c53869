package pixel

import (
	"image/color"
	"strconv"
	"strings"
)

// Color is a straight (non-premultiplied) RGBA color.
// Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGBA implements the color.Color interface.
// Returns premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A)*0xffff + 0.5)
	r = uint32(clamp01(c.R)*clamp01(c.A)*0xffff + 0.5)
	g = uint32(clamp01(c.G)*clamp01(c.A)*0xffff + 0.5)
	b = uint32(clamp01(c.B)*clamp01(c.A)*0xffff + 0.5)
	return r, g, b, a
}

// NRGBA converts the color to the standard 8-bit straight alpha form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// FromColor converts a standard color.Color to Color.
func FromColor(c color.Color) Color {
	switch v := c.(type) {
	case Color:
		return v
	case color.NRGBA:
		return RGBA8(v.R, v.G, v.B, v.A)
	case color.NRGBA64:
		return Color{
			R: float64(v.R) / 0xffff,
			G: float64(v.G) / 0xffff,
			B: float64(v.B) / 0xffff,
			A: float64(v.A) / 0xffff,
		}
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Transparent
	}
	return Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 0xffff,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGBA8 creates a color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// Hex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa"; the '#' is
// optional. ok is false when s is malformed.
func Hex(s string) (c Color, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 4 && len(s) != 6 && len(s) != 8 {
		return Black, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black, false
	}
	if len(s) <= 4 {
		// Widen each nibble to a byte: 0xf0a becomes 0xff00aa.
		var wide uint64
		for j := range len(s) {
			wide |= ((v >> (4 * j)) & 0xf) * 0x11 << (8 * j)
		}
		v = wide
	}
	if len(s) == 3 || len(s) == 6 {
		v = v<<8 | 0xff
	}
	return RGBA8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// Premultiply returns the color with its RGB components scaled by alpha.
func (c Color) Premultiply() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Unpremultiply is the inverse of Premultiply.
func (c Color) Unpremultiply() Color {
	if c.A == 0 {
		return Transparent
	}
	return Color{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// to8 quantizes a [0, 1] component to 8 bits with rounding.
func to8(x float64) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = RGBA(0, 0, 0, 0)
)
