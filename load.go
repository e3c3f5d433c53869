package blit

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// codecFor returns the registry entry for the extension of path.
func (dc *Context) codecFor(path string) (CodecEntry, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return CodecEntry{}, fmt.Errorf("%w: %q", ErrNoExtension, path)
	}
	e, ok := dc.codecs.Find(ext)
	if !ok {
		return CodecEntry{}, fmt.Errorf("%w: %s", ErrNoHandler, ext)
	}
	return e, nil
}

// LoadBitmap loads the file at path with the codec registered for its
// extension.
//
// The transform is reset to the identity while the codec runs and restored
// afterwards. Codec failures are wrapped with ErrCodec.
func (dc *Context) LoadBitmap(path string) (*Bitmap, error) {
	e, err := dc.codecFor(path)
	if err == nil && e.Loader == nil {
		err = fmt.Errorf("%w: %s has no loader", ErrNoHandler, e.Extension)
	}
	if err != nil {
		dc.log().Warn("blit: cannot load bitmap", "path", path, "err", err)
		return nil, err
	}

	var bmp *Bitmap
	err = dc.WithTransform(Identity(), func() error {
		var lerr error
		bmp, lerr = e.Loader(dc, path)
		return lerr
	})
	return checkLoaded(bmp, err, path)
}

// LoadBitmapStream loads a bitmap from r with the stream loader registered
// for ident, an extension such as ".png".
func (dc *Context) LoadBitmapStream(r io.Reader, ident string) (*Bitmap, error) {
	e, ok := dc.codecs.Find(ident)
	if !ok || e.StreamLoader == nil {
		return nil, fmt.Errorf("%w: %s stream loader", ErrNoHandler, ident)
	}
	var bmp *Bitmap
	err := dc.WithTransform(Identity(), func() error {
		var lerr error
		bmp, lerr = e.StreamLoader(dc, r)
		return lerr
	})
	return checkLoaded(bmp, err, ident)
}

func checkLoaded(bmp *Bitmap, err error, what string) (*Bitmap, error) {
	if err != nil {
		if bmp != nil {
			_ = bmp.Destroy()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCodec, what, err)
	}
	if bmp == nil {
		return nil, fmt.Errorf("%w: %s: no bitmap", ErrCodec, what)
	}
	return bmp, nil
}

// SaveBitmap writes bmp to path with the codec registered for its
// extension.
func (dc *Context) SaveBitmap(path string, bmp *Bitmap) error {
	if bmp == nil {
		return ErrNilBitmap
	}
	e, err := dc.codecFor(path)
	if err == nil && e.Saver == nil {
		err = fmt.Errorf("%w: %s has no saver", ErrNoHandler, e.Extension)
	}
	if err != nil {
		dc.log().Warn("blit: cannot save bitmap", "path", path, "err", err)
		return err
	}
	if err := e.Saver(dc, path, bmp); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCodec, path, err)
	}
	return nil
}

// SaveBitmapStream writes bmp to w with the stream saver registered for
// ident.
func (dc *Context) SaveBitmapStream(w io.Writer, ident string, bmp *Bitmap) error {
	if bmp == nil {
		return ErrNilBitmap
	}
	e, ok := dc.codecs.Find(ident)
	if !ok || e.StreamSaver == nil {
		return fmt.Errorf("%w: %s stream saver", ErrNoHandler, ident)
	}
	if err := e.StreamSaver(dc, w, bmp); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCodec, ident, err)
	}
	return nil
}

// BitmapFromImage converts a decoded image into a bitmap. Codecs call it
// after decoding.
//
// With FormatAny configured the channel layout of img is kept where a
// matching format exists (see the pixel formats); otherwise the configured
// format is used. The pixels are decoded into memory first; when the
// context creates display bitmaps the result is then uploaded to the
// current display.
func (dc *Context) BitmapFromImage(img image.Image) (*Bitmap, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	f := dc.newFormat
	if f == pixel.FormatAny {
		f = soft.NativeFormat(img)
	}

	log := dc.log()
	mem := newMemoryBitmap(b.Dx(), b.Dy(), f, dc.newFlags, log)
	soft.Import(mem.memorySurface(mem.Bounds()), img)
	if dc.newFlags.Has(MemoryBitmap) || dc.display == nil {
		return mem, nil
	}

	out, err := newDisplayBitmap(dc.display, mem.width, mem.height, f, dc.newFlags, log)
	if err != nil {
		return nil, err
	}
	if err := copyPixels(out, mem); err != nil {
		return nil, errors.Join(err, out.Destroy())
	}
	return out, nil
}

// Image returns a copy of the bitmap as a standard library image, read
// through a read-only lock. Codecs call it before encoding.
func (b *Bitmap) Image() (img image.Image, err error) {
	if b == nil {
		return nil, ErrNilBitmap
	}
	s, release, err := b.acquire(b.Bounds(), LockReadOnly)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, release()) }()
	return soft.Export(s), nil
}
