// Package headless provides a blit display driver that keeps display
// storage in process memory.
//
// The driver behaves like a hardware driver: its textures are separate from
// the bitmaps' memory mirrors, locks hand out staging copies and draws run
// inside the driver. It is used for tests, servers and as the fallback
// when no GPU driver is available.
//
//	import _ "github.com/gogpu/blit/backend/headless"
package headless

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/pixel"
)

// Priority is the registry priority of the headless driver.
const Priority = 10

// Package errors.
var (
	// ErrClosed is returned after the driver was closed.
	ErrClosed = errors.New("headless: driver closed")

	// ErrForeignTexture is returned when a draw targets a texture of
	// another driver.
	ErrForeignTexture = errors.New("headless: texture belongs to another driver")

	// ErrTextureLocked is returned when a locked texture is used.
	ErrTextureLocked = errors.New("headless: texture locked")

	// ErrTextureDestroyed is returned when a destroyed texture is used.
	ErrTextureDestroyed = errors.New("headless: texture destroyed")

	// ErrNotLocked is returned by UnlockRegion without a lock.
	ErrNotLocked = errors.New("headless: texture not locked")
)

func init() {
	backend.Register(backend.DriverHeadless, Priority, func() (blit.Driver, error) {
		return New(), nil
	})
}

// Stats counts driver calls.
type Stats struct {
	Textures int
	Destroys int
	Uploads  int
	Locks    int
	Unlocks  int
	Draws    int
	Presents int
}

// Option configures a Driver.
type Option func(*Driver)

// WithFormat sets the format of display bitmaps created with FormatAny.
func WithFormat(f pixel.Format) Option {
	return func(d *Driver) {
		if f.IsValid() {
			d.format = f
		}
	}
}

// WithCrossDisplayBlit lets displays of this driver draw into each other.
func WithCrossDisplayBlit() Option {
	return func(d *Driver) {
		d.caps |= blit.CapCrossDisplayBlit
	}
}

// WithoutMirror makes textures leave mirror allocation to blit.
func WithoutMirror() Option {
	return func(d *Driver) {
		d.noMirror = true
	}
}

// Driver is the headless display driver.
//
// Driver is safe for concurrent use; its textures are not.
type Driver struct {
	mu        sync.Mutex
	format    pixel.Format
	caps      blit.Capability
	noMirror  bool
	closed    bool
	stats     Stats
	presented *Texture
	log       *slog.Logger
}

// New creates a headless driver. Display bitmaps default to FormatBGRA8,
// the usual layout of desktop framebuffers.
func New(opts ...Option) *Driver {
	d := &Driver{format: pixel.FormatBGRA8, log: blit.Logger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements blit.Driver.
func (d *Driver) Name() string { return backend.DriverHeadless }

// Capabilities implements blit.Driver.
func (d *Driver) Capabilities() blit.Capability { return d.caps }

// NativeFormat implements blit.Driver.
func (d *Driver) NativeFormat() pixel.Format { return d.format }

// SetLogger sets the driver logger. blit calls it when a display is
// created.
func (d *Driver) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = l
}

// NewTexture implements blit.Driver.
func (d *Driver) NewTexture(desc blit.TextureDescriptor) (blit.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	if desc.Width <= 0 || desc.Height <= 0 || !desc.Format.IsValid() {
		return nil, errors.New("headless: invalid texture descriptor")
	}
	d.stats.Textures++
	d.log.Debug("headless: texture created", "w", desc.Width, "h", desc.Height,
		"format", desc.Format, "gpu_format", desc.GPUFormat)
	return newTexture(d, desc), nil
}

// Present records backbuffer as the shown image.
func (d *Driver) Present(backbuffer blit.Texture) error {
	t, ok := backbuffer.(*Texture)
	if !ok || t.drv != d {
		return ErrForeignTexture
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented = t
	d.stats.Presents++
	return nil
}

// Presented returns the texture of the last Present, or nil.
func (d *Driver) Presented() *Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presented
}

// Stats returns a copy of the call counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Close releases the driver. Textures created afterwards fail.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.presented = nil
	return nil
}

func (d *Driver) count(f func(*Stats)) {
	d.mu.Lock()
	f(&d.stats)
	d.mu.Unlock()
}
