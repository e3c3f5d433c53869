package blit

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// Bitmap is a rectangle of pixels stored in system memory, in display
// storage, or in both.
//
// A Bitmap is not safe for concurrent use. At most one lock is active at a
// time, and the format is fixed for the bitmap's lifetime.
type Bitmap struct {
	width   int
	height  int
	format  pixel.Format
	flags   BitmapFlags
	backing Backing

	// memory holds width*height*bpp bytes. For memory and synced bitmaps
	// it is authoritative; for pure display bitmaps it is a cache.
	memory []byte

	// stale is the part of a synced bitmap's memory that hardware draws
	// have overwritten in the texture. It is read back before the next lock.
	stale image.Rectangle

	texture Texture
	display *Display

	lock    *lockState
	lockGen uint64

	destroyed bool
	log       *slog.Logger
}

// newMemoryBitmap allocates a zero-filled memory bitmap.
func newMemoryBitmap(w, h int, f pixel.Format, flags BitmapFlags, log *slog.Logger) *Bitmap {
	return &Bitmap{
		width:   w,
		height:  h,
		format:  f,
		flags:   flags | MemoryBitmap,
		backing: BackingMemory,
		memory:  make([]byte, f.ImageBytes(w, h)),
		log:     log,
	}
}

// newDisplayBitmap allocates display storage through the display's driver
// and establishes the synchronized state by uploading the zeroed mirror.
func newDisplayBitmap(d *Display, w, h int, f pixel.Format, flags BitmapFlags, log *slog.Logger) (*Bitmap, error) {
	if f == pixel.FormatAny {
		f = d.driver.NativeFormat()
	}
	tex, err := newTexture(d.driver, w, h, f, flags)
	if err != nil {
		return nil, err
	}

	size := f.ImageBytes(w, h)
	var mem []byte
	if mp, ok := tex.(MirrorProvider); ok {
		if m := mp.Mirror(); len(m) == size {
			mem = m
		}
	}
	if mem == nil {
		mem = make([]byte, size)
	}

	backing := BackingDisplay
	if flags.Has(SyncMemoryCopy) {
		backing = BackingDisplaySynced
	}
	b := &Bitmap{
		width:   w,
		height:  h,
		format:  f,
		flags:   flags &^ MemoryBitmap,
		backing: backing,
		memory:  mem,
		texture: tex,
		display: d,
		log:     log,
	}

	if err := tex.Upload(mem, f.RowBytes(w), f, b.Bounds()); err != nil {
		if derr := tex.Destroy(); derr != nil {
			log.Warn("blit: texture release failed", "driver", d.driver.Name(), "err", derr)
		}
		return nil, fmt.Errorf("blit: initial upload: %w", err)
	}
	return b, nil
}

// CreateBitmap creates a bitmap using the context's new-bitmap flags and
// format.
//
// The bitmap is placed in memory when the flags contain MemoryBitmap or no
// display is current; otherwise the current display's driver stores it.
func (dc *Context) CreateBitmap(w, h int) (*Bitmap, error) {
	return dc.CreateBitmapFormat(w, h, dc.newFormat)
}

// CreateBitmapFormat is like CreateBitmap with an explicit format.
// FormatAny selects FormatRGBA8 for memory bitmaps and the driver's native
// format for display bitmaps.
func (dc *Context) CreateBitmapFormat(w, h int, f pixel.Format) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if f != pixel.FormatAny && !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", pixel.ErrInvalidFormat, f)
	}

	log := dc.log()
	if dc.newFlags.Has(MemoryBitmap) || dc.display == nil {
		if dc.display == nil && !dc.newFlags.Has(MemoryBitmap) {
			log.Debug("blit: no current display, creating memory bitmap", "w", w, "h", h)
		}
		if f == pixel.FormatAny {
			f = pixel.FormatRGBA8
		}
		return newMemoryBitmap(w, h, f, dc.newFlags, log), nil
	}
	return newDisplayBitmap(dc.display, w, h, f, dc.newFlags, log)
}

// CloneBitmap copies bmp into a new bitmap created with the context's
// configuration. The copy keeps the size of bmp; the format is converted
// when the configured format differs.
func (dc *Context) CloneBitmap(bmp *Bitmap) (*Bitmap, error) {
	if bmp == nil {
		return nil, ErrNilBitmap
	}
	if bmp.destroyed {
		return nil, ErrDestroyed
	}
	f := dc.newFormat
	if f == pixel.FormatAny {
		f = bmp.format
	}
	out, err := dc.CreateBitmapFormat(bmp.width, bmp.height, f)
	if err != nil {
		return nil, err
	}
	if err := copyPixels(out, bmp); err != nil {
		_ = out.Destroy()
		return nil, err
	}
	return out, nil
}

// copyPixels converts all pixels of src into dst. Both must have the same
// size.
func copyPixels(dst, src *Bitmap) (err error) {
	from, releaseSrc, err := src.acquire(src.Bounds(), LockReadOnly)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, releaseSrc()) }()

	to, releaseDst, err := dst.acquire(dst.Bounds(), LockWriteOnly)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, releaseDst()) }()

	soft.Convert(to, from)
	return nil
}

// Destroy releases the bitmap's storage. A held lock is released first,
// which invalidates its LockedRegion. Destroy is idempotent.
func (b *Bitmap) Destroy() error {
	if b == nil || b.destroyed {
		return nil
	}
	var err error
	if b.lock != nil {
		err = b.Unlock()
	}
	if b.texture != nil {
		err = errors.Join(err, b.texture.Destroy())
		b.texture = nil
	}
	b.memory = nil
	b.display = nil
	b.destroyed = true
	return err
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Bounds returns the bitmap rectangle, always anchored at (0, 0).
func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Format returns the storage format.
func (b *Bitmap) Format() pixel.Format { return b.format }

// Flags returns the flags the bitmap was created with.
func (b *Bitmap) Flags() BitmapFlags { return b.flags }

// Backing reports where the pixels live.
func (b *Bitmap) Backing() Backing { return b.backing }

// Display returns the display the bitmap was created against, or nil for
// memory bitmaps.
func (b *Bitmap) Display() *Display { return b.display }

// IsMemory reports whether the bitmap lives only in system memory.
func (b *Bitmap) IsMemory() bool { return b.backing == BackingMemory }

// IsLocked reports whether a lock is active.
func (b *Bitmap) IsLocked() bool { return b.lock != nil }

// IsDestroyed reports whether Destroy has been called.
func (b *Bitmap) IsDestroyed() bool { return b.destroyed }

// IsCompatible reports whether b and other can be drawn onto each other
// with display hardware.
func (b *Bitmap) IsCompatible(other *Bitmap) bool {
	if b == nil || other == nil || b.IsMemory() || other.IsMemory() {
		return false
	}
	return compatible(b.display, other.display)
}

// linear reports whether sampling from b should filter linearly.
func (b *Bitmap) linear() bool {
	return b.flags&(MinLinear|MagLinear) != 0
}

// pitch returns the row length of the memory buffer.
func (b *Bitmap) pitch() int { return b.format.RowBytes(b.width) }

// memorySurface returns a surface over r of the memory buffer.
func (b *Bitmap) memorySurface(r image.Rectangle) *soft.Surface {
	bpp := b.format.BytesPerPixel()
	pitch := b.pitch()
	off := (r.Min.Y*b.width + r.Min.X) * bpp
	n := (r.Dy()-1)*pitch + r.Dx()*bpp
	return &soft.Surface{
		Pix:    b.memory[off : off+n],
		Stride: pitch,
		Rect:   r,
		Format: b.format,
	}
}
