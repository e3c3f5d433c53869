// Package soft implements the software pixel paths used by memory bitmaps
// and the headless driver: format conversion, fills and transformed
// blitting over raw pixel buffers.
package soft

import (
	"image"
	"image/color"

	"github.com/gogpu/blit/internal/parallel"
	"github.com/gogpu/blit/pixel"
)

// parallelPixels is the size from which format conversions are split
// across the worker pool.
const parallelPixels = 256 * 256

// bandRows is the smallest band handed to one worker.
const bandRows = 32

// Surface is a view of raw pixel memory.
//
// Pix holds the pixel at Rect.Min at offset 0. Coordinates are absolute,
// so a surface over a sub-region of a bitmap is addressed with the same
// coordinates as the full bitmap.
type Surface struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	Format pixel.Format
}

// New allocates a tightly packed surface covering r.
func New(r image.Rectangle, f pixel.Format) *Surface {
	stride := f.RowBytes(r.Dx())
	return &Surface{
		Pix:    make([]byte, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
		Format: f,
	}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (s *Surface) PixOffset(x, y int) int {
	return (y-s.Rect.Min.Y)*s.Stride + (x-s.Rect.Min.X)*s.Format.BytesPerPixel()
}

// At returns the color at (x, y), or transparent outside the surface.
func (s *Surface) At(x, y int) pixel.Color {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return pixel.Transparent
	}
	return s.Format.Unpack(s.Pix[s.PixOffset(x, y):])
}

// Set stores c at (x, y). Points outside the surface are ignored.
func (s *Surface) Set(x, y int, c pixel.Color) {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return
	}
	s.Format.Pack(s.Pix[s.PixOffset(x, y):], c)
}

// Fill stores c in every pixel of r clipped to the surface.
func (s *Surface) Fill(r image.Rectangle, c pixel.Color) {
	r = r.Intersect(s.Rect)
	if r.Empty() {
		return
	}
	bpp := s.Format.BytesPerPixel()
	var px [4]byte
	s.Format.Pack(px[:], c)

	// Pack the first row, then replicate it.
	first := s.PixOffset(r.Min.X, r.Min.Y)
	rowLen := r.Dx() * bpp
	row := s.Pix[first : first+rowLen]
	for i := 0; i < rowLen; i += bpp {
		copy(row[i:i+bpp], px[:bpp])
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		off := s.PixOffset(r.Min.X, y)
		copy(s.Pix[off:off+rowLen], row)
	}
}

// Convert copies the overlap of src and dst into dst, converting pixel
// formats as needed.
func Convert(dst, src *Surface) {
	r := dst.Rect.Intersect(src.Rect)
	if r.Empty() {
		return
	}
	if dst.Format == src.Format {
		n := r.Dx() * dst.Format.BytesPerPixel()
		for y := r.Min.Y; y < r.Max.Y; y++ {
			d := dst.PixOffset(r.Min.X, y)
			s := src.PixOffset(r.Min.X, y)
			copy(dst.Pix[d:d+n], src.Pix[s:s+n])
		}
		return
	}
	if r.Dx()*r.Dy() < parallelPixels {
		convertRows(dst, src, r)
		return
	}
	parallel.Default().Bands(r, bandRows, func(band image.Rectangle) {
		convertRows(dst, src, band)
	})
}

func convertRows(dst, src *Surface, r image.Rectangle) {
	sbpp := src.Format.BytesPerPixel()
	dbpp := dst.Format.BytesPerPixel()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.PixOffset(r.Min.X, y)
		s := src.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Format.Pack(dst.Pix[d:], src.Format.Unpack(src.Pix[s:]))
			d += dbpp
			s += sbpp
		}
	}
}

// Image adapts a surface to the draw.Image interface.
func (s *Surface) Image() *Image {
	return &Image{s: s}
}

// Image is a draw.Image view of a Surface.
type Image struct {
	s *Surface
}

// ColorModel implements image.Image.
func (im *Image) ColorModel() color.Model { return color.NRGBA64Model }

// Bounds implements image.Image.
func (im *Image) Bounds() image.Rectangle { return im.s.Rect }

// At implements image.Image.
func (im *Image) At(x, y int) color.Color {
	c := im.s.At(x, y)
	return color.NRGBA64{
		R: uint16(c.R*0xffff + 0.5),
		G: uint16(c.G*0xffff + 0.5),
		B: uint16(c.B*0xffff + 0.5),
		A: uint16(c.A*0xffff + 0.5),
	}
}

// Set implements draw.Image.
func (im *Image) Set(x, y int, c color.Color) {
	im.s.Set(x, y, pixel.FromColor(c))
}
