//go:build !headless

// Package ebiten provides a blit display driver that stores bitmaps as GPU
// textures through Ebitengine.
//
// Ebitengine only allows reading texture pixels once its game loop runs.
// Until the driver has seen Update or Draw, read locks of its bitmaps fail
// with ErrNotRunning. Writing (creation, upload, write-only locks) works at
// any time.
//
//	import _ "github.com/gogpu/blit/backend/ebiten"
package ebiten

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/pixel"
)

// Priority is the registry priority of the Ebitengine driver.
const Priority = 100

// Package errors.
var (
	// ErrForeignTexture is returned when a draw targets a texture of
	// another driver.
	ErrForeignTexture = errors.New("ebiten: texture belongs to another driver")

	// ErrTextureLocked is returned when a locked texture is used.
	ErrTextureLocked = errors.New("ebiten: texture locked")

	// ErrTextureDestroyed is returned when a destroyed texture is used.
	ErrTextureDestroyed = errors.New("ebiten: texture destroyed")

	// ErrNotLocked is returned by UnlockRegion without a lock.
	ErrNotLocked = errors.New("ebiten: texture not locked")

	// ErrNotRunning is returned by read locks before the game loop runs.
	ErrNotRunning = errors.New("ebiten: game loop not running")

	// ErrFormatMismatch is returned by uploads in a format other than the
	// texture's.
	ErrFormatMismatch = errors.New("ebiten: upload format mismatch")
)

func init() {
	backend.Register(backend.DriverEbiten, Priority, func() (blit.Driver, error) {
		return New(), nil
	})
}

// Driver is the Ebitengine display driver. Displays of one driver share
// the GPU, so it reports CapCrossDisplayBlit.
type Driver struct {
	mu        sync.Mutex
	presented *Texture
	log       *slog.Logger

	// running is set once Ebitengine calls into the game.
	running atomic.Bool
}

// New creates an Ebitengine driver.
func New() *Driver {
	return &Driver{log: blit.Logger()}
}

// Name implements blit.Driver.
func (d *Driver) Name() string { return backend.DriverEbiten }

// Capabilities implements blit.Driver.
func (d *Driver) Capabilities() blit.Capability { return blit.CapCrossDisplayBlit }

// NativeFormat implements blit.Driver. Ebitengine images hold
// premultiplied RGBA.
func (d *Driver) NativeFormat() pixel.Format { return pixel.FormatRGBAPremul }

// SetLogger sets the driver logger.
func (d *Driver) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = l
}

// NewTexture implements blit.Driver.
func (d *Driver) NewTexture(desc blit.TextureDescriptor) (blit.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 || !desc.Format.IsValid() {
		return nil, errors.New("ebiten: invalid texture descriptor")
	}
	d.mu.Lock()
	log := d.log
	d.mu.Unlock()
	log.Debug("ebiten: texture created", "w", desc.Width, "h", desc.Height, "format", desc.Format)
	return &Texture{
		drv:    d,
		img:    ebiten.NewImage(desc.Width, desc.Height),
		format: desc.Format,
	}, nil
}

// Present makes backbuffer the image drawn by Draw.
func (d *Driver) Present(backbuffer blit.Texture) error {
	t, ok := backbuffer.(*Texture)
	if !ok || t.drv != d {
		return ErrForeignTexture
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented = t
	return nil
}

// Update marks the game loop as running. Call it from the game's Update
// method before locking bitmaps there.
func (d *Driver) Update() { d.running.Store(true) }

// Running reports whether Update or Draw has been called.
func (d *Driver) Running() bool { return d.running.Load() }

// Draw copies the last presented backbuffer onto screen, scaled to fit.
// Call it from the game's Draw method.
func (d *Driver) Draw(screen *ebiten.Image) {
	d.running.Store(true)
	d.mu.Lock()
	t := d.presented
	d.mu.Unlock()
	if t == nil || t.img == nil {
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	tw, th := t.img.Bounds().Dx(), t.img.Bounds().Dy()

	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	op.GeoM.Scale(float64(sw)/float64(tw), float64(sh)/float64(th))
	screen.DrawImage(t.img, op)
}

// Close releases the presented reference.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented = nil
	return nil
}
