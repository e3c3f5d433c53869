package main

import (
	"errors"
	"image"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/pixel"
)

// restoreTint is the per-tick opacity of the restoring image.
const restoreTint = 0.1

var (
	damageBlender  = pixel.CopyBlender
	restoreBlender = pixel.Blender{Src: pixel.BlendAlpha, Dst: pixel.BlendInverseAlpha, Tint: pixel.RGBA(1, 1, 1, restoreTint)}
)

// scene paints damaged areas red and fades the picture back in over them.
// It draws to the backbuffer of the context's display.
type scene struct {
	dc    *blit.Context
	image *blit.Bitmap
	dirty bool
}

func newScene(dc *blit.Context, img *blit.Bitmap) (*scene, error) {
	if dc.Display() == nil {
		return nil, errors.New("blitview: no display")
	}
	s := &scene{dc: dc}
	return s, s.replace(img)
}

// replace shows img, releasing the previous picture.
func (s *scene) replace(img *blit.Bitmap) error {
	if s.image != nil && s.image != img {
		_ = s.image.Destroy()
	}
	s.image = img
	s.dirty = true
	return s.dc.WithTarget(s.dc.Display().Backbuffer(), func() error {
		if err := s.dc.Clear(pixel.Black); err != nil {
			return err
		}
		return s.dc.DrawBitmap(img, 0, 0, 0)
	})
}

// damage fills r with opaque red.
func (s *scene) damage(r image.Rectangle) error {
	if r.Empty() {
		return nil
	}
	s.dirty = true
	return s.dc.WithTarget(s.dc.Display().Backbuffer(), func() error {
		return s.dc.WithBlender(damageBlender, func() error {
			return s.dc.DrawFilledRectangle(float64(r.Min.X), float64(r.Min.Y),
				float64(r.Max.X), float64(r.Max.Y), pixel.Red)
		})
	})
}

// restore blends the picture, tiled over the backbuffer, at low opacity.
func (s *scene) restore() error {
	bb := s.dc.Display().Backbuffer()
	w, h := s.image.Width(), s.image.Height()
	s.dirty = true
	return s.dc.WithTarget(bb, func() error {
		return s.dc.WithBlender(restoreBlender, func() error {
			for y := 0; y < bb.Height(); y += h {
				for x := 0; x < bb.Width(); x += w {
					if err := s.dc.DrawBitmap(s.image, float64(x), float64(y), 0); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

// present flips the display when something was drawn since the last call.
func (s *scene) present() error {
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return s.dc.Display().Flip()
}
