// Package pixel provides the pixel format catalog, colors and blending
// math shared by bitmaps, software surfaces and display drivers.
package pixel

import (
	"errors"
	"strings"
)

// ErrInvalidFormat is returned when a format is not recognized.
var ErrInvalidFormat = errors.New("pixel: invalid format")

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatAny requests the default or native format. It is never the
	// format of a stored bitmap.
	FormatAny Format = iota

	// FormatRGBA8 is 32-bit RGBA with straight alpha (R, G, B, A in memory).
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	// This is the usual GPU texture layout.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit BGRA with straight alpha.
	FormatBGRA8

	// FormatARGB8 is 32-bit ARGB with straight alpha (A first in memory).
	FormatARGB8

	// FormatRGB8 is 24-bit RGB without alpha.
	FormatRGB8

	// FormatRGB565 is 16-bit little-endian RGB with 5-6-5 bit channels.
	FormatRGB565

	// FormatGray8 is 8-bit luminance.
	FormatGray8

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	Name            string
	BytesPerPixel   int
	Channels        int
	HasAlpha        bool
	IsPremultiplied bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatAny:        {Name: "Any"},
	FormatRGBA8:      {Name: "RGBA8", BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatRGBAPremul: {Name: "RGBAPremul", BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsPremultiplied: true},
	FormatBGRA8:      {Name: "BGRA8", BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatARGB8:      {Name: "ARGB8", BytesPerPixel: 4, Channels: 4, HasAlpha: true},
	FormatRGB8:       {Name: "RGB8", BytesPerPixel: 3, Channels: 3},
	FormatRGB565:     {Name: "RGB565", BytesPerPixel: 2, Channels: 3},
	FormatGray8:      {Name: "Gray8", BytesPerPixel: 1, Channels: 1},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{Name: "Unknown"}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel.
// FormatAny and unknown formats report 0.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// Channels returns the number of color channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// HasAlpha reports whether the format stores an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied reports whether color channels are premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// String returns the format name.
func (f Format) String() string {
	return f.Info().Name
}

// IsValid reports whether f is a concrete storage format.
func (f Format) IsValid() bool {
	return f > FormatAny && f < formatCount
}

// RowBytes returns the number of bytes of a tightly packed row.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes returns the number of bytes of a tightly packed image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// ParseFormat returns the format with the given name (case-insensitive).
func ParseFormat(name string) (Format, error) {
	for f := FormatAny; f < formatCount; f++ {
		if strings.EqualFold(formatInfoTable[f].Name, name) {
			return f, nil
		}
	}
	return FormatAny, ErrInvalidFormat
}

// Formats returns all concrete storage formats.
func Formats() []Format {
	out := make([]Format, 0, formatCount-1)
	for f := FormatAny + 1; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}
