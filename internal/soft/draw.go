package soft

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit/pixel"
)

// Filter selects how source pixels are sampled.
type Filter uint8

const (
	// FilterNearest picks the source pixel under the sample point.
	FilterNearest Filter = iota

	// FilterLinear interpolates between the four nearest source pixels.
	FilterLinear
)

// Identity is the identity source-to-destination transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Bounds returns the destination pixels touched when sr is mapped through
// s2d.
func Bounds(s2d f64.Aff3, sr image.Rectangle) image.Rectangle {
	if sr.Empty() {
		return image.Rectangle{}
	}
	xs := [4]float64{float64(sr.Min.X), float64(sr.Max.X), float64(sr.Min.X), float64(sr.Max.X)}
	ys := [4]float64{float64(sr.Min.Y), float64(sr.Min.Y), float64(sr.Max.Y), float64(sr.Max.Y)}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x := s2d[0]*xs[i] + s2d[1]*ys[i] + s2d[2]
		y := s2d[3]*xs[i] + s2d[4]*ys[i] + s2d[5]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// Draw maps the sr region of src into dst through s2d and combines the
// sampled pixels with dst using b. Only pixels inside dst.Rect change.
func Draw(dst, src *Surface, sr image.Rectangle, s2d f64.Aff3, b pixel.Blender, filter Filter) {
	sr = sr.Intersect(src.Rect)
	if sr.Empty() {
		return
	}
	det := s2d[0]*s2d[4] - s2d[1]*s2d[3]
	if math.Abs(det) < 1e-10 {
		return
	}

	if b.IsCopy() && dst.Format == src.Format && isIntTranslation(s2d) {
		copyTranslated(dst, src, sr, int(s2d[2]), int(s2d[5]))
		return
	}

	if b.IsSourceOver() {
		drawOver(dst, src, sr, s2d, b.Tint.A, filter)
		return
	}

	drawBlend(dst, src, sr, s2d, det, b, filter)
}

func isIntTranslation(m f64.Aff3) bool {
	return m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1 &&
		m[2] == math.Trunc(m[2]) && m[5] == math.Trunc(m[5])
}

func copyTranslated(dst, src *Surface, sr image.Rectangle, dx, dy int) {
	off := image.Pt(dx, dy)
	r := sr.Add(off).Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	n := r.Dx() * dst.Format.BytesPerPixel()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.PixOffset(r.Min.X, y)
		s := src.PixOffset(r.Min.X-dx, y-dy)
		copy(dst.Pix[d:d+n], src.Pix[s:s+n])
	}
}

// drawOver composites with x/image/draw. An alpha-only tint becomes a
// uniform source mask.
func drawOver(dst, src *Surface, sr image.Rectangle, s2d f64.Aff3, alpha float64, filter Filter) {
	var opts *draw.Options
	if alpha < 1 {
		a := uint16(math.Max(0, alpha)*0xffff + 0.5)
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: a})}
	}
	var interp draw.Interpolator = draw.NearestNeighbor
	if filter == FilterLinear {
		interp = draw.ApproxBiLinear
	}
	interp.Transform(dst.Image(), s2d, src.Image(), sr, draw.Over, opts)
}

// drawBlend inverse-maps each destination pixel center back into the
// source and blends the sample with b.
func drawBlend(dst, src *Surface, sr image.Rectangle, s2d f64.Aff3, det float64, b pixel.Blender, filter Filter) {
	r := Bounds(s2d, sr).Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	inv := invert(s2d, det)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := r.Min.X; x < r.Max.X; x++ {
			px := float64(x) + 0.5
			sx := inv[0]*px + inv[1]*py + inv[2]
			sy := inv[3]*px + inv[4]*py + inv[5]
			ix, iy := int(math.Floor(sx)), int(math.Floor(sy))
			if !(image.Point{X: ix, Y: iy}.In(sr)) {
				continue
			}
			var c pixel.Color
			if filter == FilterLinear {
				c = bilinear(src, sr, sx-0.5, sy-0.5)
			} else {
				c = src.At(ix, iy)
			}
			dst.Set(x, y, b.Blend(c, dst.At(x, y)))
		}
	}
}

func invert(m f64.Aff3, det float64) f64.Aff3 {
	inv := 1 / det
	return f64.Aff3{
		m[4] * inv, -m[1] * inv, (m[1]*m[5] - m[2]*m[4]) * inv,
		-m[3] * inv, m[0] * inv, (m[2]*m[3] - m[0]*m[5]) * inv,
	}
}

// bilinear samples src at (x, y) in pixel-center space, clamping to sr.
// Interpolation happens on premultiplied values.
func bilinear(src *Surface, sr image.Rectangle, x, y float64) pixel.Color {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	sample := func(px, py int) pixel.Color {
		px = min(max(px, sr.Min.X), sr.Max.X-1)
		py = min(max(py, sr.Min.Y), sr.Max.Y-1)
		return src.At(px, py).Premultiply()
	}
	c00 := sample(ix, iy)
	c10 := sample(ix+1, iy)
	c01 := sample(ix, iy+1)
	c11 := sample(ix+1, iy+1)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	mix := func(a, b, c, d float64) float64 {
		return lerp(lerp(a, b, fx), lerp(c, d, fx), fy)
	}
	return pixel.Color{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}.Unpremultiply()
}
