package soft

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Mul returns the transform that applies b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// SourceRect returns the whole source pixels covered by the floating point
// region (sx, sy, sw, sh).
func SourceRect(sx, sy, sw, sh float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(sx)), int(math.Floor(sy)),
		int(math.Ceil(sx+sw)), int(math.Ceil(sy+sh)),
	)
}

// RegionTransform maps the source region (sx, sy, sw, sh) onto the
// destination rectangle (dx, dy, dw, dh). Flips mirror the region within
// its own extent.
func RegionTransform(sx, sy, sw, sh, dx, dy, dw, dh float64, flipH, flipV bool) f64.Aff3 {
	if sw == 0 || sh == 0 {
		return f64.Aff3{}
	}
	kx, ky := dw/sw, dh/sh
	m := f64.Aff3{kx, 0, dx - sx*kx, 0, ky, dy - sy*ky}
	if flipH {
		// x' = dx + (sx + sw - x) * kx
		m[0] = -kx
		m[2] = dx + (sx+sw)*kx
	}
	if flipV {
		m[4] = -ky
		m[5] = dy + (sy+sh)*ky
	}
	return m
}

// RotatedTransform places the source point (cx, cy) at (dx, dy), scaling
// by (xscale, yscale) and rotating clockwise by angle radians about that
// point. Flips mirror the source about (cx, cy).
func RotatedTransform(cx, cy, dx, dy, xscale, yscale, angle float64, flipH, flipV bool) f64.Aff3 {
	if flipH {
		xscale = -xscale
	}
	if flipV {
		yscale = -yscale
	}
	sin, cos := math.Sincos(angle)
	a, b := cos*xscale, -sin*yscale
	d, e := sin*xscale, cos*yscale
	return f64.Aff3{
		a, b, dx - a*cx - b*cy,
		d, e, dy - d*cx - e*cy,
	}
}
