package blit

import (
	"errors"
	"fmt"

	"github.com/gogpu/blit/pixel"
)

// ConvertMaskToAlpha makes every pixel of bmp that equals mask fully
// transparent. mask is first mapped to the bitmap's format, so it matches
// the pixels it would produce if stored. All other pixels are unchanged,
// and converting twice gives the same result as converting once.
//
// The bitmap is locked for the duration and becomes the target; both are
// restored before returning. When the lock cannot be taken the conversion
// is skipped and the lock error returned.
func (dc *Context) ConvertMaskToAlpha(bmp *Bitmap, mask pixel.Color) (err error) {
	if bmp == nil {
		return ErrNilBitmap
	}
	lr, err := bmp.Lock(pixel.FormatAny, LockReadWrite)
	if err != nil {
		dc.log().Warn("blit: mask to alpha: cannot lock bitmap", "err", err)
		return fmt.Errorf("blit: mask to alpha: %w", err)
	}
	defer func() { err = errors.Join(err, bmp.Unlock()) }()

	key := lr.Format().Quantize(mask)
	return dc.WithTarget(bmp, func() error {
		for y := 0; y < bmp.height; y++ {
			for x := 0; x < bmp.width; x++ {
				if lr.Pixel(x, y) != key {
					continue
				}
				if err := dc.PutPixel(x, y, pixel.Transparent); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ConvertMaskToAlphaDefault converts with the context's mask color.
func (dc *Context) ConvertMaskToAlphaDefault(bmp *Bitmap) error {
	return dc.ConvertMaskToAlpha(bmp, dc.maskColor)
}
