package blit

import (
	"fmt"
	"image"

	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// lockState is the active lock of a bitmap.
type lockState struct {
	rect image.Rectangle
	mode LockMode

	// view is what the caller sees. When the caller asked for a format
	// other than the one of the backing pixels, view is a staging copy of
	// native and is converted back on unlock.
	view    *soft.Surface
	native  *soft.Surface
	staging bool
}

// LockedRegion is pixel memory exposed by a bitmap lock.
//
// A region is only valid until its bitmap is unlocked or destroyed. After
// that Bytes returns nil, Pixel returns transparent and SetPixel fails with
// ErrRegionInvalid.
type LockedRegion struct {
	bmp *Bitmap
	gen uint64

	pix    []byte
	pitch  int
	format pixel.Format
	rect   image.Rectangle
	mode   LockMode
}

// Valid reports whether the region still belongs to an active lock.
func (r *LockedRegion) Valid() bool {
	return r != nil && r.bmp != nil && !r.bmp.destroyed &&
		r.bmp.lock != nil && r.bmp.lockGen == r.gen
}

// Bytes returns the pixel data. The first byte is the top-left pixel of the
// region; rows are Pitch bytes apart. Bytes returns nil once the region is
// no longer valid.
func (r *LockedRegion) Bytes() []byte {
	if !r.Valid() {
		return nil
	}
	return r.pix
}

// Pitch returns the distance in bytes between rows. It may exceed the
// width of the region times the pixel size.
func (r *LockedRegion) Pitch() int { return r.pitch }

// Format returns the pixel format of the data.
func (r *LockedRegion) Format() pixel.Format { return r.format }

// Bounds returns the locked rectangle in bitmap coordinates.
func (r *LockedRegion) Bounds() image.Rectangle { return r.rect }

// Mode returns the access mode of the lock.
func (r *LockedRegion) Mode() LockMode { return r.mode }

// Pixel returns the pixel at (x, y) relative to the region origin.
// Points outside the region or reads through an invalid region return
// transparent.
func (r *LockedRegion) Pixel(x, y int) pixel.Color {
	if !r.Valid() || !r.contains(x, y) {
		return pixel.Transparent
	}
	return r.format.Unpack(r.pix[r.offset(x, y):])
}

// SetPixel stores c at (x, y) relative to the region origin. Points outside
// the region are ignored.
func (r *LockedRegion) SetPixel(x, y int, c pixel.Color) error {
	if !r.Valid() {
		return ErrRegionInvalid
	}
	if r.contains(x, y) {
		r.format.Pack(r.pix[r.offset(x, y):], c)
	}
	return nil
}

func (r *LockedRegion) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.rect.Dx() && y < r.rect.Dy()
}

func (r *LockedRegion) offset(x, y int) int {
	return y*r.pitch + x*r.format.BytesPerPixel()
}

// Lock locks the whole bitmap. See LockRegion.
func (b *Bitmap) Lock(f pixel.Format, mode LockMode) (*LockedRegion, error) {
	if b == nil {
		return nil, ErrNilBitmap
	}
	return b.LockRegion(0, 0, b.width, b.height, f, mode)
}

// LockRegion locks the rectangle (x, y, w, h) for direct pixel access.
//
// Only one lock may be active; locking a locked bitmap fails with
// ErrAlreadyLocked and leaves the existing lock untouched. f selects the
// format of the returned data; FormatAny keeps the storage format.
//
// Memory and synchronized bitmaps in their own format are addressed
// directly: the data starts at byte (y*width + x)*bpp of the bitmap's
// memory and the pitch is width*bpp. Pure display bitmaps are locked by
// their driver, which may hand out a staging copy.
func (b *Bitmap) LockRegion(x, y, w, h int, f pixel.Format, mode LockMode) (*LockedRegion, error) {
	if b == nil {
		return nil, ErrNilBitmap
	}
	if b.destroyed {
		return nil, ErrDestroyed
	}
	if b.lock != nil {
		return nil, ErrAlreadyLocked
	}
	r := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 || !r.In(b.Bounds()) {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrInvalidRegion, r, b.width, b.height)
	}
	if f != pixel.FormatAny && !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", pixel.ErrInvalidFormat, f)
	}

	if err := b.readBackStale(); err != nil {
		return nil, err
	}

	var native *soft.Surface
	if b.backing == BackingDisplay {
		v, err := b.texture.LockRegion(r, mode)
		if err != nil {
			return nil, fmt.Errorf("blit: %s lock: %w", b.display.driver.Name(), err)
		}
		native = &soft.Surface{Pix: v.Pix, Stride: v.Stride, Rect: r, Format: v.Format}
	} else {
		native = b.memorySurface(r)
	}

	st := &lockState{rect: r, mode: mode, view: native, native: native}
	if f != pixel.FormatAny && f != native.Format {
		st.view = soft.New(r, f)
		st.staging = true
		if mode.canRead() {
			soft.Convert(st.view, native)
		}
	}

	b.lock = st
	b.lockGen++
	return &LockedRegion{
		bmp:    b,
		gen:    b.lockGen,
		pix:    st.view.Pix,
		pitch:  st.view.Stride,
		format: st.view.Format,
		rect:   r,
		mode:   mode,
	}, nil
}

// Unlock ends the active lock and invalidates its LockedRegion.
//
// Written pixels of a synchronized display bitmap are uploaded to the
// display; pure display bitmaps are unlocked by their driver. The lock is
// released even when the driver reports an error. Unlock on a bitmap that
// is not locked returns ErrNotLocked and changes nothing.
func (b *Bitmap) Unlock() error {
	if b == nil {
		return ErrNilBitmap
	}
	st := b.lock
	if st == nil {
		return ErrNotLocked
	}
	b.lock = nil
	b.lockGen++

	if st.staging && st.mode.canWrite() {
		soft.Convert(st.native, st.view)
	}

	switch b.backing {
	case BackingDisplaySynced:
		if !st.mode.canWrite() {
			return nil
		}
		if err := b.texture.Upload(b.memory, b.pitch(), b.format, st.rect); err != nil {
			return fmt.Errorf("blit: %s upload: %w", b.display.driver.Name(), err)
		}
	case BackingDisplay:
		if err := b.texture.UnlockRegion(); err != nil {
			return fmt.Errorf("blit: %s unlock: %w", b.display.driver.Name(), err)
		}
	}
	return nil
}

// readBackStale copies texture pixels changed by hardware draws into the
// memory of a synced bitmap, so that memory stays authoritative.
func (b *Bitmap) readBackStale() error {
	r := b.stale
	if b.backing != BackingDisplaySynced || r.Empty() {
		return nil
	}
	v, err := b.texture.LockRegion(r, LockReadOnly)
	if err != nil {
		return fmt.Errorf("blit: %s read back: %w", b.display.driver.Name(), err)
	}
	soft.Convert(b.memorySurface(r), &soft.Surface{Pix: v.Pix, Stride: v.Stride, Rect: r, Format: v.Format})
	if err := b.texture.UnlockRegion(); err != nil {
		return fmt.Errorf("blit: %s read back: %w", b.display.driver.Name(), err)
	}
	b.stale = image.Rectangle{}
	return nil
}

// acquire returns a surface covering r with at least the access of mode.
// An active lock is reused when it covers r and mode; otherwise the bitmap
// is locked and the returned release func unlocks it.
func (b *Bitmap) acquire(r image.Rectangle, mode LockMode) (*soft.Surface, func() error, error) {
	if b.destroyed {
		return nil, nil, ErrDestroyed
	}
	if st := b.lock; st != nil {
		if !r.In(st.rect) || !st.mode.covers(mode) {
			return nil, nil, ErrLocked
		}
		return st.view, func() error { return nil }, nil
	}
	if _, err := b.LockRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), pixel.FormatAny, mode); err != nil {
		return nil, nil, err
	}
	return b.lock.view, b.Unlock, nil
}
