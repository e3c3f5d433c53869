package pixel

// Pack writes c into dst using the layout of f.
// dst must hold at least f.BytesPerPixel() bytes.
func (f Format) Pack(dst []byte, c Color) {
	switch f {
	case FormatRGBA8:
		dst[0], dst[1], dst[2], dst[3] = to8(c.R), to8(c.G), to8(c.B), to8(c.A)
	case FormatRGBAPremul:
		p := c.Premultiply()
		dst[0], dst[1], dst[2], dst[3] = to8(p.R), to8(p.G), to8(p.B), to8(c.A)
	case FormatBGRA8:
		dst[0], dst[1], dst[2], dst[3] = to8(c.B), to8(c.G), to8(c.R), to8(c.A)
	case FormatARGB8:
		dst[0], dst[1], dst[2], dst[3] = to8(c.A), to8(c.R), to8(c.G), to8(c.B)
	case FormatRGB8:
		dst[0], dst[1], dst[2] = to8(c.R), to8(c.G), to8(c.B)
	case FormatRGB565:
		r := uint16(clamp01(c.R)*31 + 0.5)
		g := uint16(clamp01(c.G)*63 + 0.5)
		b := uint16(clamp01(c.B)*31 + 0.5)
		v := r<<11 | g<<5 | b
		dst[0], dst[1] = byte(v), byte(v>>8)
	case FormatGray8:
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		dst[0] = to8(0.299*c.R + 0.587*c.G + 0.114*c.B)
	}
}

// Unpack decodes one pixel of format f from src.
// Formats without alpha decode as opaque.
func (f Format) Unpack(src []byte) Color {
	switch f {
	case FormatRGBA8:
		return RGBA8(src[0], src[1], src[2], src[3])
	case FormatRGBAPremul:
		a := src[3]
		if a == 0 {
			return Transparent
		}
		af := float64(a)
		return Color{
			R: clamp01(float64(src[0]) / af),
			G: clamp01(float64(src[1]) / af),
			B: clamp01(float64(src[2]) / af),
			A: af / 255,
		}
	case FormatBGRA8:
		return RGBA8(src[2], src[1], src[0], src[3])
	case FormatARGB8:
		return RGBA8(src[1], src[2], src[3], src[0])
	case FormatRGB8:
		return RGBA8(src[0], src[1], src[2], 255)
	case FormatRGB565:
		v := uint16(src[0]) | uint16(src[1])<<8
		return Color{
			R: float64(v>>11&0x1f) / 31,
			G: float64(v>>5&0x3f) / 63,
			B: float64(v&0x1f) / 31,
			A: 1,
		}
	case FormatGray8:
		return RGBA8(src[0], src[0], src[0], 255)
	default:
		return Transparent
	}
}

// Quantize returns c as it reads back after being stored in format f.
func (f Format) Quantize(c Color) Color {
	if !f.IsValid() {
		return c
	}
	var buf [4]byte
	f.Pack(buf[:], c)
	return f.Unpack(buf[:])
}
