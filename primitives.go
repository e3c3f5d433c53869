package blit

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// usableTarget returns the current target or an error when it is unusable.
func (dc *Context) usableTarget() (*Bitmap, error) {
	dst := dc.target
	if dst == nil {
		return nil, ErrNoTarget
	}
	if dst.destroyed {
		return nil, ErrDestroyed
	}
	return dst, nil
}

// PutPixel stores c at (x, y) of the target without blending or
// transform. Points outside the target are ignored.
func (dc *Context) PutPixel(x, y int, c pixel.Color) (err error) {
	dst, err := dc.usableTarget()
	if err != nil {
		return err
	}
	if !(image.Point{X: x, Y: y}.In(dst.Bounds())) {
		return nil
	}
	s, release, err := dst.acquire(image.Rect(x, y, x+1, y+1), LockWriteOnly)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, release()) }()
	s.Set(x, y, c)
	return nil
}

// DrawPixel blends c into the target pixel under (x, y) after applying the
// transform. The pixel is composited like a 1x1 bitmap, so it blends
// exactly as DrawBitmap would.
func (dc *Context) DrawPixel(x, y float64, c pixel.Color) (err error) {
	dst, err := dc.usableTarget()
	if err != nil {
		return err
	}
	tx, ty := dc.transform.Apply(x, y)
	ix, iy := int(math.Floor(tx)), int(math.Floor(ty))
	if !(image.Point{X: ix, Y: iy}.In(dst.Bounds())) {
		return nil
	}

	// Copying without tint needs no read of the destination.
	if dc.blender.IsCopy() {
		return dc.PutPixel(ix, iy, c)
	}
	s, release, err := dst.acquire(image.Rect(ix, iy, ix+1, iy+1), LockReadWrite)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, release()) }()
	soft.Draw(s, onePixel(c), onePixelRect, f64.Aff3{1, 0, float64(ix), 0, 1, float64(iy)},
		dc.blender, soft.FilterNearest)
	return nil
}

var onePixelRect = image.Rect(0, 0, 1, 1)

// onePixel returns a 1x1 straight alpha surface holding c.
func onePixel(c pixel.Color) *soft.Surface {
	src := soft.New(onePixelRect, pixel.FormatRGBA8)
	src.Set(0, 0, c)
	return src
}

// Clear fills the whole target with c, ignoring blender and transform.
func (dc *Context) Clear(c pixel.Color) (err error) {
	dst, err := dc.usableTarget()
	if err != nil {
		return err
	}
	s, release, err := dst.acquire(dst.Bounds(), LockWriteOnly)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, release()) }()
	s.Fill(dst.Bounds(), c)
	return nil
}

// DrawFilledRectangle blends c over the rectangle with corners (x1, y1)
// and (x2, y2), transformed by the current transform.
func (dc *Context) DrawFilledRectangle(x1, y1, x2, y2 float64, c pixel.Color) (err error) {
	dst, err := dc.usableTarget()
	if err != nil {
		return err
	}
	x1, x2 = min(x1, x2), max(x1, x2)
	y1, y2 = min(y1, y2), max(y1, y2)
	if x1 == x2 || y1 == y2 {
		return nil
	}

	// A single source pixel stretched over the rectangle.
	s2d := soft.Mul(dc.transform.Aff3(), f64.Aff3{x2 - x1, 0, x1, 0, y2 - y1, y1})
	dr := soft.Bounds(s2d, onePixelRect).Intersect(dst.Bounds())
	if dr.Empty() {
		return nil
	}
	to, release, err := dst.acquire(dr, LockReadWrite)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, release()) }()
	soft.Draw(to, onePixel(c), onePixelRect, s2d, dc.blender, soft.FilterNearest)
	return nil
}

// Pixel returns the pixel at (x, y). An active lock covering the point is
// read through; otherwise the pixel is read with a temporary lock.
func (b *Bitmap) Pixel(x, y int) (c pixel.Color, err error) {
	if b == nil {
		return pixel.Transparent, ErrNilBitmap
	}
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return pixel.Transparent, ErrInvalidRegion
	}
	s, release, err := b.acquire(image.Rect(x, y, x+1, y+1), LockReadOnly)
	if err != nil {
		return pixel.Transparent, err
	}
	defer func() { err = errors.Join(err, release()) }()
	return s.At(x, y), nil
}
