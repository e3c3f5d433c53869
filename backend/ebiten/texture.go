//go:build !headless

package ebiten

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// Texture is an Ebitengine image holding one bitmap. format is the
// bitmap's format; the image itself always holds premultiplied RGBA.
type Texture struct {
	drv    *Driver
	img    *ebiten.Image
	format pixel.Format

	lock *textureLock
}

type textureLock struct {
	rect    image.Rectangle
	mode    blit.LockMode
	staging *soft.Surface
}

// Image returns the underlying Ebitengine image.
func (t *Texture) Image() *ebiten.Image { return t.img }

func (t *Texture) usable() error {
	if t.img == nil {
		return ErrTextureDestroyed
	}
	if t.lock != nil {
		return ErrTextureLocked
	}
	return nil
}

func (t *Texture) sub(r image.Rectangle) *ebiten.Image {
	return t.img.SubImage(r).(*ebiten.Image)
}

// Upload implements blit.Texture. Pixels are converted to premultiplied
// RGBA before they are written.
func (t *Texture) Upload(src []byte, pitch int, format pixel.Format, r image.Rectangle) error {
	if err := t.usable(); err != nil {
		return err
	}
	if format != t.format {
		return fmt.Errorf("%w: %v into %v", ErrFormatMismatch, format, t.format)
	}
	r = r.Intersect(t.img.Bounds())
	if r.Empty() {
		return nil
	}
	off := r.Min.Y*pitch + r.Min.X*format.BytesPerPixel()
	staging := soft.New(r, pixel.FormatRGBAPremul)
	soft.Convert(staging, &soft.Surface{Pix: src[off:], Stride: pitch, Rect: r, Format: format})
	t.sub(r).WritePixels(staging.Pix)
	return nil
}

// LockRegion implements blit.Texture. The view is premultiplied RGBA.
// Reading locks fail with ErrNotRunning until the game loop runs.
func (t *Texture) LockRegion(r image.Rectangle, mode blit.LockMode) (blit.View, error) {
	if err := t.usable(); err != nil {
		return blit.View{}, err
	}
	if mode != blit.LockWriteOnly && !t.drv.Running() {
		return blit.View{}, ErrNotRunning
	}
	staging := soft.New(r, pixel.FormatRGBAPremul)
	if mode != blit.LockWriteOnly {
		t.sub(r).ReadPixels(staging.Pix)
	}
	t.lock = &textureLock{rect: r, mode: mode, staging: staging}
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
		t.sub(l.rect).WritePixels(l.staging.Pix)
	}
	return nil
}

// Destroy implements blit.Texture.
func (t *Texture) Destroy() error {
	if t.img == nil {
		return nil
	}
	t.img.Deallocate()
	t.img = nil
	t.lock = nil
	return nil
}

// DrawBitmap implements blit.Texture.
func (t *Texture) DrawBitmap(st blit.DrawState, dx, dy float64, flags blit.DrawFlags) error {
	if err := t.usable(); err != nil {
		return err
	}
	b := t.img.Bounds()
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
	if err := t.usable(); err != nil {
		return err
	}
	return t.draw(st, t.img.Bounds(),
		soft.RotatedTransform(cx, cy, dx, dy, 1, 1, angle, flipH(flags), flipV(flags)))
}

// DrawRotatedScaledBitmap implements blit.Texture.
func (t *Texture) DrawRotatedScaledBitmap(st blit.DrawState, cx, cy, dx, dy, xscale, yscale, angle float64, flags blit.DrawFlags) error {
	if err := t.usable(); err != nil {
		return err
	}
	return t.draw(st, t.img.Bounds(),
		soft.RotatedTransform(cx, cy, dx, dy, xscale, yscale, angle, flipH(flags), flipV(flags)))
}

func (t *Texture) draw(st blit.DrawState, sr image.Rectangle, place f64.Aff3) error {
	if err := t.usable(); err != nil {
		return err
	}
	dst, ok := st.Target.(*Texture)
	if !ok {
		return ErrForeignTexture
	}
	if err := dst.usable(); err != nil {
		return err
	}
	sr = sr.Intersect(t.img.Bounds())
	if sr.Empty() {
		return nil
	}

	// The sub-image is drawn from its own origin.
	m := soft.Mul(st.Transform.Aff3(), place)
	m = soft.Mul(m, f64.Aff3{1, 0, float64(sr.Min.X), 0, 1, float64(sr.Min.Y)})

	op := &ebiten.DrawImageOptions{Blend: blend(st.Blender)}
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(0, 1, m[1])
	op.GeoM.SetElement(0, 2, m[2])
	op.GeoM.SetElement(1, 0, m[3])
	op.GeoM.SetElement(1, 1, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	tint := st.Blender.Tint
	op.ColorScale.Scale(float32(tint.R), float32(tint.G), float32(tint.B), 1)
	op.ColorScale.ScaleAlpha(float32(tint.A))
	if st.Linear {
		op.Filter = ebiten.FilterLinear
	}
	dst.img.DrawImage(t.sub(sr), op)
	return nil
}

// blend maps a straight alpha blender to Ebitengine's premultiplied
// blending. Premultiplied sources already carry their alpha, so a source
// alpha factor becomes one.
func blend(b pixel.Blender) ebiten.Blend {
	src := factor(b.Src)
	if b.Src == pixel.BlendAlpha {
		src = ebiten.BlendFactorOne
	}
	dst := factor(b.Dst)
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      src,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dst,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

func factor(f pixel.BlendFactor) ebiten.BlendFactor {
	switch f {
	case pixel.BlendOne:
		return ebiten.BlendFactorOne
	case pixel.BlendAlpha:
		return ebiten.BlendFactorSourceAlpha
	case pixel.BlendInverseAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	default:
		return ebiten.BlendFactorZero
	}
}

func flipH(f blit.DrawFlags) bool { return f&blit.FlipHorizontal != 0 }
func flipV(f blit.DrawFlags) bool { return f&blit.FlipVertical != 0 }
