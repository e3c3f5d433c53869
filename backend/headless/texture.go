package headless

import (
	"image"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// Texture is display storage of the headless driver.
type Texture struct {
	drv    *Driver
	vram   *soft.Surface
	mirror []byte

	lock      *textureLock
	destroyed bool
}

type textureLock struct {
	rect    image.Rectangle
	mode    blit.LockMode
	staging *soft.Surface
}

func newTexture(d *Driver, desc blit.TextureDescriptor) *Texture {
	r := image.Rect(0, 0, desc.Width, desc.Height)
	t := &Texture{drv: d, vram: soft.New(r, desc.Format)}
	if !d.noMirror {
		t.mirror = make([]byte, desc.Format.ImageBytes(desc.Width, desc.Height))
	}
	return t
}

// Mirror implements blit.MirrorProvider.
func (t *Texture) Mirror() []byte { return t.mirror }

// Image returns a copy of the texture contents.
func (t *Texture) Image() image.Image { return soft.Export(t.vram) }

func (t *Texture) bounds() image.Rectangle {
	if t.vram == nil {
		return image.Rectangle{}
	}
	return t.vram.Rect
}

func (t *Texture) usable() error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if t.lock != nil {
		return ErrTextureLocked
	}
	return nil
}

// Upload implements blit.Texture.
func (t *Texture) Upload(src []byte, pitch int, format pixel.Format, r image.Rectangle) error {
	if err := t.usable(); err != nil {
		return err
	}
	r = r.Intersect(t.vram.Rect)
	if r.Empty() {
		return nil
	}
	off := r.Min.Y*pitch + r.Min.X*format.BytesPerPixel()
	soft.Convert(t.vram, &soft.Surface{Pix: src[off:], Stride: pitch, Rect: r, Format: format})
	t.drv.count(func(s *Stats) { s.Uploads++ })
	return nil
}

// LockRegion implements blit.Texture. The view is a staging copy in the
// texture format.
func (t *Texture) LockRegion(r image.Rectangle, mode blit.LockMode) (blit.View, error) {
	if err := t.usable(); err != nil {
		return blit.View{}, err
	}
	staging := soft.New(r, t.vram.Format)
	if mode != blit.LockWriteOnly {
		soft.Convert(staging, t.vram)
	}
	t.lock = &textureLock{rect: r, mode: mode, staging: staging}
	t.drv.count(func(s *Stats) { s.Locks++ })
	return blit.View{Pix: staging.Pix, Stride: staging.Stride, Format: staging.Format}, nil
}

// UnlockRegion implements blit.Texture.
func (t *Texture) UnlockRegion() error {
	l := t.lock
	if l == nil {
		return ErrNotLocked
	}
	t.lock = nil
	if l.mode != blit.LockReadOnly {
		soft.Convert(t.vram, l.staging)
	}
	t.drv.count(func(s *Stats) { s.Unlocks++ })
	return nil
}

// Destroy implements blit.Texture.
func (t *Texture) Destroy() error {
	if t.destroyed {
		return nil
	}
	t.destroyed = true
	t.lock = nil
	t.vram = nil
	t.mirror = nil
	t.drv.count(func(s *Stats) { s.Destroys++ })
	return nil
}

// DrawBitmap implements blit.Texture.
func (t *Texture) DrawBitmap(st blit.DrawState, dx, dy float64, flags blit.DrawFlags) error {
	b := t.bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	return t.draw(st, b, soft.RegionTransform(0, 0, w, h, dx, dy, w, h, flipH(flags), flipV(flags)))
}

// DrawBitmapRegion implements blit.Texture.
func (t *Texture) DrawBitmapRegion(st blit.DrawState, sx, sy, sw, sh, dx, dy float64, flags blit.DrawFlags) error {
	return t.draw(st, soft.SourceRect(sx, sy, sw, sh),
		soft.RegionTransform(sx, sy, sw, sh, dx, dy, sw, sh, flipH(flags), flipV(flags)))
}

// DrawScaledBitmap implements blit.Texture.
func (t *Texture) DrawScaledBitmap(st blit.DrawState, sx, sy, sw, sh, dx, dy, dw, dh float64, flags blit.DrawFlags) error {
	return t.draw(st, soft.SourceRect(sx, sy, sw, sh),
		soft.RegionTransform(sx, sy, sw, sh, dx, dy, dw, dh, flipH(flags), flipV(flags)))
}

// DrawRotatedBitmap implements blit.Texture.
func (t *Texture) DrawRotatedBitmap(st blit.DrawState, cx, cy, dx, dy, angle float64, flags blit.DrawFlags) error {
	return t.draw(st, t.bounds(),
		soft.RotatedTransform(cx, cy, dx, dy, 1, 1, angle, flipH(flags), flipV(flags)))
}

// DrawRotatedScaledBitmap implements blit.Texture.
func (t *Texture) DrawRotatedScaledBitmap(st blit.DrawState, cx, cy, dx, dy, xscale, yscale, angle float64, flags blit.DrawFlags) error {
	return t.draw(st, t.bounds(),
		soft.RotatedTransform(cx, cy, dx, dy, xscale, yscale, angle, flipH(flags), flipV(flags)))
}

func (t *Texture) draw(st blit.DrawState, sr image.Rectangle, place f64.Aff3) error {
	if err := t.usable(); err != nil {
		return err
	}
	dst, ok := st.Target.(*Texture)
	if !ok || dst.drv.caps&blit.CapCrossDisplayBlit == 0 && dst.drv != t.drv {
		return ErrForeignTexture
	}
	if err := dst.usable(); err != nil {
		return err
	}
	filter := soft.FilterNearest
	if st.Linear {
		filter = soft.FilterLinear
	}
	soft.Draw(dst.vram, t.vram, sr, soft.Mul(st.Transform.Aff3(), place), st.Blender, filter)
	t.drv.count(func(s *Stats) { s.Draws++ })
	return nil
}

func flipH(f blit.DrawFlags) bool { return f&blit.FlipHorizontal != 0 }
func flipV(f blit.DrawFlags) bool { return f&blit.FlipVertical != 0 }
