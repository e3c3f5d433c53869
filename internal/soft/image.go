package soft

import (
	"image"

	"github.com/gogpu/blit/pixel"
)

// NativeFormat returns the storage format that keeps the channel layout of
// img. Layouts without a matching format are reduced: 16-bit channels to
// 8 bits, paletted images to RGBA8, YCbCr and CMYK to RGB8.
func NativeFormat(img image.Image) pixel.Format {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return pixel.FormatGray8
	case *image.RGBA:
		return pixel.FormatRGBAPremul
	case *image.YCbCr, *image.CMYK:
		return pixel.FormatRGB8
	default:
		return pixel.FormatRGBA8
	}
}

// Import copies img into dst. Pixels of img outside dst.Rect are skipped;
// img's origin maps to dst.Rect.Min.
func Import(dst *Surface, img image.Image) {
	b := img.Bounds()
	w := min(b.Dx(), dst.Rect.Dx())
	h := min(b.Dy(), dst.Rect.Dy())
	bpp := dst.Format.BytesPerPixel()

	// Matching layouts copy rows.
	var pix []byte
	var stride int
	switch src := img.(type) {
	case *image.NRGBA:
		if dst.Format == pixel.FormatRGBA8 {
			pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
		}
	case *image.RGBA:
		if dst.Format == pixel.FormatRGBAPremul {
			pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
		}
	case *image.Gray:
		if dst.Format == pixel.FormatGray8 {
			pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
		}
	}
	if pix != nil {
		n := w * bpp
		for y := 0; y < h; y++ {
			d := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
			copy(dst.Pix[d:d+n], pix[y*stride:y*stride+n])
		}
		return
	}

	for y := 0; y < h; y++ {
		d := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			dst.Format.Pack(dst.Pix[d:], pixel.FromColor(img.At(b.Min.X+x, b.Min.Y+y)))
			d += bpp
		}
	}
}

// Export copies s into a new standard library image anchored at (0, 0).
// Gray8 surfaces export as *image.Gray, premultiplied ones as *image.RGBA
// and everything else as *image.NRGBA.
func Export(s *Surface) image.Image {
	r := image.Rect(0, 0, s.Rect.Dx(), s.Rect.Dy())
	var (
		out    image.Image
		pix    []byte
		stride int
		f      pixel.Format
	)
	switch s.Format {
	case pixel.FormatGray8:
		g := image.NewGray(r)
		out, pix, stride, f = g, g.Pix, g.Stride, pixel.FormatGray8
	case pixel.FormatRGBAPremul:
		m := image.NewRGBA(r)
		out, pix, stride, f = m, m.Pix, m.Stride, pixel.FormatRGBAPremul
	default:
		m := image.NewNRGBA(r)
		out, pix, stride, f = m, m.Pix, m.Stride, pixel.FormatRGBA8
	}
	Convert(&Surface{Pix: pix, Stride: stride, Rect: s.Rect, Format: f}, s)
	return out
}
