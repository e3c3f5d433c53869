package blit

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/pixel"
)

// Capability describes optional driver features.
type Capability uint32

const (
	// CapCrossDisplayBlit allows drawing between bitmaps that belong to
	// different displays of the same driver.
	CapCrossDisplayBlit Capability = 1 << iota
)

// Driver creates display storage for bitmaps.
//
// Drivers are provided by backend packages (backend/headless,
// backend/ebiten) and selected through the backend registry.
type Driver interface {
	// Name returns the driver name (e.g., "headless", "ebiten").
	Name() string

	// Capabilities reports optional features.
	Capabilities() Capability

	// NativeFormat is the format used for display bitmaps created with
	// FormatAny.
	NativeFormat() pixel.Format

	// NewTexture allocates display storage.
	NewTexture(desc TextureDescriptor) (Texture, error)
}

// TextureDescriptor describes display storage to allocate.
type TextureDescriptor struct {
	Width, Height int
	Format        pixel.Format
	Flags         BitmapFlags

	// GPUFormat and Usage express the request in WebGPU terms for
	// drivers that sit on a GPU API.
	GPUFormat gputypes.TextureFormat
	Usage     gputypes.TextureUsage
}

// View is pixel memory handed out by a texture lock. Pix holds the pixel
// at the top-left of the locked rectangle at offset 0.
type View struct {
	Pix    []byte
	Stride int
	Format pixel.Format
}

// DrawState carries the target and blending state of a hardware draw.
type DrawState struct {
	// Target is the destination texture.
	Target Texture

	// Blender combines source pixels with the target.
	Blender pixel.Blender

	// Transform is applied after the operation's own placement.
	Transform Matrix

	// Linear requests linear filtering.
	Linear bool
}

// Texture is the display storage of one bitmap. The receiver of the Draw
// methods is the source.
type Texture interface {
	// Upload copies the rectangle r of src into the texture. src addresses
	// the full bitmap: pixel (x, y) starts at y*pitch + x*bpp.
	Upload(src []byte, pitch int, format pixel.Format, r image.Rectangle) error

	// LockRegion exposes the pixels of r. The view may be a staging copy
	// in a format other than the texture's.
	LockRegion(r image.Rectangle, mode LockMode) (View, error)

	// UnlockRegion ends the lock started by LockRegion, writing the view
	// back unless it was locked read-only.
	UnlockRegion() error

	DrawBitmap(st DrawState, dx, dy float64, flags DrawFlags) error
	DrawBitmapRegion(st DrawState, sx, sy, sw, sh, dx, dy float64, flags DrawFlags) error
	DrawScaledBitmap(st DrawState, sx, sy, sw, sh, dx, dy, dw, dh float64, flags DrawFlags) error
	DrawRotatedBitmap(st DrawState, cx, cy, dx, dy, angle float64, flags DrawFlags) error
	DrawRotatedScaledBitmap(st DrawState, cx, cy, dx, dy, xscale, yscale, angle float64, flags DrawFlags) error

	// Destroy releases the storage.
	Destroy() error
}

// MirrorProvider is implemented by textures that supply their own memory
// mirror. The slice must hold width*height*bpp bytes.
type MirrorProvider interface {
	Mirror() []byte
}

// Presenter is implemented by drivers that can show a backbuffer.
type Presenter interface {
	Present(backbuffer Texture) error
}

// closer is implemented by drivers that hold resources.
type closer interface {
	Close() error
}

// GPUTextureFormat maps a pixel format to the matching WebGPU format.
// Formats without a direct equivalent map to TextureFormatUndefined.
func GPUTextureFormat(f pixel.Format) gputypes.TextureFormat {
	switch f {
	case pixel.FormatRGBA8, pixel.FormatRGBAPremul:
		return gputypes.TextureFormatRGBA8Unorm
	case pixel.FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case pixel.FormatGray8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// textureUsage is the usage requested for every bitmap texture.
const textureUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment

// Display is an output surface managed by a driver. Bitmaps created while a
// display is current are stored by its driver.
type Display struct {
	driver     Driver
	width      int
	height     int
	backbuffer *Bitmap
	closed     bool
}

// Driver returns the display's driver.
func (d *Display) Driver() Driver { return d.driver }

// Width returns the display width.
func (d *Display) Width() int { return d.width }

// Height returns the display height.
func (d *Display) Height() int { return d.height }

// Backbuffer returns the bitmap that is shown by Flip.
func (d *Display) Backbuffer() *Bitmap { return d.backbuffer }

// Flip presents the backbuffer if the driver supports presentation.
func (d *Display) Flip() error {
	if d.closed {
		return ErrDestroyed
	}
	p, ok := d.driver.(Presenter)
	if !ok {
		return nil
	}
	return p.Present(d.backbuffer.texture)
}

// Close destroys the backbuffer and releases driver resources.
// Bitmaps created against the display must be destroyed first.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := d.backbuffer.Destroy()
	if c, ok := d.driver.(closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// compatible reports whether hardware draws between bitmaps of a and b
// are supported.
func compatible(a, b *Display) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.driver == b.driver && a.driver.Capabilities()&CapCrossDisplayBlit != 0
}

// newTexture asks the driver for storage matching a bitmap.
func newTexture(drv Driver, w, h int, f pixel.Format, flags BitmapFlags) (Texture, error) {
	tex, err := drv.NewTexture(TextureDescriptor{
		Width:     w,
		Height:    h,
		Format:    f,
		Flags:     flags,
		GPUFormat: GPUTextureFormat(f),
		Usage:     textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureAlloc, drv.Name(), err)
	}
	return tex, nil
}
