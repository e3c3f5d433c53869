package blit

import (
	"errors"
	"image"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit/internal/soft"
)

// drawOp is one drawing primitive in both of its forms.
type drawOp struct {
	name string

	// sr and place describe the software path: the source pixels and
	// their mapping into the target before the context transform.
	sr    image.Rectangle
	place f64.Aff3

	// hw runs the primitive on the source texture.
	hw func(src Texture, st DrawState) error
}

// DrawBitmap draws src with its top-left corner at (dx, dy) on the target.
func (dc *Context) DrawBitmap(src *Bitmap, dx, dy float64, flags DrawFlags) error {
	if src == nil {
		return ErrNilBitmap
	}
	w, h := float64(src.width), float64(src.height)
	return dc.dispatch(src, drawOp{
		name:  "DrawBitmap",
		sr:    src.Bounds(),
		place: soft.RegionTransform(0, 0, w, h, dx, dy, w, h, flags.h(), flags.v()),
		hw: func(t Texture, st DrawState) error {
			return t.DrawBitmap(st, dx, dy, flags)
		},
	})
}

// DrawBitmapRegion draws the source rectangle (sx, sy, sw, sh) of src with
// its top-left corner at (dx, dy).
func (dc *Context) DrawBitmapRegion(src *Bitmap, sx, sy, sw, sh, dx, dy float64, flags DrawFlags) error {
	return dc.dispatch(src, drawOp{
		name:  "DrawBitmapRegion",
		sr:    soft.SourceRect(sx, sy, sw, sh),
		place: soft.RegionTransform(sx, sy, sw, sh, dx, dy, sw, sh, flags.h(), flags.v()),
		hw: func(t Texture, st DrawState) error {
			return t.DrawBitmapRegion(st, sx, sy, sw, sh, dx, dy, flags)
		},
	})
}

// DrawScaledBitmap draws the source rectangle (sx, sy, sw, sh) of src
// stretched to the destination rectangle (dx, dy, dw, dh).
func (dc *Context) DrawScaledBitmap(src *Bitmap, sx, sy, sw, sh, dx, dy, dw, dh float64, flags DrawFlags) error {
	return dc.dispatch(src, drawOp{
		name:  "DrawScaledBitmap",
		sr:    soft.SourceRect(sx, sy, sw, sh),
		place: soft.RegionTransform(sx, sy, sw, sh, dx, dy, dw, dh, flags.h(), flags.v()),
		hw: func(t Texture, st DrawState) error {
			return t.DrawScaledBitmap(st, sx, sy, sw, sh, dx, dy, dw, dh, flags)
		},
	})
}

// DrawRotatedBitmap draws src rotated clockwise by angle radians about the
// source point (cx, cy), which lands at (dx, dy).
func (dc *Context) DrawRotatedBitmap(src *Bitmap, cx, cy, dx, dy, angle float64, flags DrawFlags) error {
	if src == nil {
		return ErrNilBitmap
	}
	return dc.dispatch(src, drawOp{
		name:  "DrawRotatedBitmap",
		sr:    src.Bounds(),
		place: soft.RotatedTransform(cx, cy, dx, dy, 1, 1, angle, flags.h(), flags.v()),
		hw: func(t Texture, st DrawState) error {
			return t.DrawRotatedBitmap(st, cx, cy, dx, dy, angle, flags)
		},
	})
}

// DrawRotatedScaledBitmap is DrawRotatedBitmap with the source scaled by
// (xscale, yscale) before rotation.
func (dc *Context) DrawRotatedScaledBitmap(src *Bitmap, cx, cy, dx, dy, xscale, yscale, angle float64, flags DrawFlags) error {
	if src == nil {
		return ErrNilBitmap
	}
	return dc.dispatch(src, drawOp{
		name:  "DrawRotatedScaledBitmap",
		sr:    src.Bounds(),
		place: soft.RotatedTransform(cx, cy, dx, dy, xscale, yscale, angle, flags.h(), flags.v()),
		hw: func(t Texture, st DrawState) error {
			return t.DrawRotatedScaledBitmap(st, cx, cy, dx, dy, xscale, yscale, angle, flags)
		},
	})
}

func (f DrawFlags) h() bool { return f&FlipHorizontal != 0 }
func (f DrawFlags) v() bool { return f&FlipVertical != 0 }

// dispatch routes op to the software path when either bitmap lives in
// memory, to the source texture when both bitmaps share display hardware,
// and drops it otherwise.
func (dc *Context) dispatch(src *Bitmap, op drawOp) error {
	if src == nil {
		return ErrNilBitmap
	}
	dst := dc.target
	if dst == nil {
		return ErrNoTarget
	}
	if src.destroyed || dst.destroyed {
		return ErrDestroyed
	}
	if src == dst {
		return ErrSelfDraw
	}
	log := dc.log()

	if src.IsMemory() || dst.IsMemory() {
		log.Debug("blit: software draw", "op", op.name, "src", src.backing, "dst", dst.backing)
		return dc.drawSoftware(src, dst, op)
	}
	if !src.IsCompatible(dst) {
		log.Debug("blit: incompatible bitmaps, draw skipped", "op", op.name,
			"src", src.display.driver.Name(), "dst", dst.display.driver.Name())
		return nil
	}
	if src.lock != nil || dst.lock != nil {
		return ErrLocked
	}
	err := op.hw(src.texture, DrawState{
		Target:    dst.texture,
		Blender:   dc.blender,
		Transform: dc.transform,
		Linear:    src.linear(),
	})
	if err == nil && dst.backing == BackingDisplaySynced {
		touched := soft.Bounds(soft.Mul(dc.transform.Aff3(), op.place), op.sr.Intersect(src.Bounds()))
		dst.stale = dst.stale.Union(touched.Intersect(dst.Bounds()))
	}
	return err
}

// drawSoftware reads src through a read-only lock, maps it through the
// placement and the context transform and blends it into dst through a
// read-write lock of the touched rectangle.
func (dc *Context) drawSoftware(src, dst *Bitmap, op drawOp) (err error) {
	sr := op.sr.Intersect(src.Bounds())
	if sr.Empty() {
		return nil
	}
	s2d := soft.Mul(dc.transform.Aff3(), op.place)
	dr := soft.Bounds(s2d, sr).Intersect(dst.Bounds())
	if dr.Empty() {
		return nil
	}

	from, releaseSrc, err := src.acquire(sr, LockReadOnly)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, releaseSrc()) }()

	to, releaseDst, err := dst.acquire(dr, LockReadWrite)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, releaseDst()) }()

	filter := soft.FilterNearest
	if src.linear() {
		filter = soft.FilterLinear
	}
	soft.Draw(to, from, sr, s2d, dc.blender, filter)
	return nil
}
