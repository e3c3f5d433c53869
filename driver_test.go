package blit

import (
	"errors"
	"image"
	"log/slog"

	"github.com/gogpu/blit/internal/soft"
	"github.com/gogpu/blit/pixel"
)

// recordingDriver is a display driver that logs every call. Its textures
// do not provide a memory mirror.
type recordingDriver struct {
	caps      Capability
	calls     []string
	failNew   error
	failLoad  error
	logger    *slog.Logger
	textures  []*recordingTexture
	presented Texture
}

func (d *recordingDriver) record(call string) { d.calls = append(d.calls, call) }

func (d *recordingDriver) Name() string               { return "recording" }
func (d *recordingDriver) Capabilities() Capability   { return d.caps }
func (d *recordingDriver) NativeFormat() pixel.Format { return pixel.FormatRGBA8 }
func (d *recordingDriver) SetLogger(l *slog.Logger)   { d.logger = l }

func (d *recordingDriver) NewTexture(desc TextureDescriptor) (Texture, error) {
	d.record("NewTexture")
	if d.failNew != nil {
		return nil, d.failNew
	}
	t := &recordingTexture{
		drv:  d,
		desc: desc,
		pix:  soft.New(image.Rect(0, 0, desc.Width, desc.Height), desc.Format),
	}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *recordingDriver) Present(t Texture) error {
	d.record("Present")
	d.presented = t
	return nil
}

// hardwareCalls returns the recorded draw calls.
func (d *recordingDriver) hardwareCalls() []string {
	var out []string
	for _, c := range d.calls {
		if len(c) > 4 && c[:4] == "Draw" {
			out = append(out, c)
		}
	}
	return out
}

type recordingTexture struct {
	drv     *recordingDriver
	desc    TextureDescriptor
	pix     *soft.Surface
	staging *soft.Surface
	mode    LockMode
	state   DrawState
}

func (t *recordingTexture) Upload(src []byte, pitch int, f pixel.Format, r image.Rectangle) error {
	t.drv.record("Upload")
	if t.drv.failLoad != nil {
		return t.drv.failLoad
	}
	off := r.Min.Y*pitch + r.Min.X*f.BytesPerPixel()
	soft.Convert(t.pix, &soft.Surface{Pix: src[off:], Stride: pitch, Rect: r, Format: f})
	return nil
}

func (t *recordingTexture) LockRegion(r image.Rectangle, mode LockMode) (View, error) {
	t.drv.record("LockRegion")
	// Hand out premultiplied staging so format differences are exercised.
	t.staging = soft.New(r, pixel.FormatRGBAPremul)
	t.mode = mode
	soft.Convert(t.staging, t.pix)
	return View{Pix: t.staging.Pix, Stride: t.staging.Stride, Format: t.staging.Format}, nil
}

func (t *recordingTexture) UnlockRegion() error {
	t.drv.record("UnlockRegion")
	if t.staging == nil {
		return errors.New("not locked")
	}
	if t.mode != LockReadOnly {
		soft.Convert(t.pix, t.staging)
	}
	t.staging = nil
	return nil
}

func (t *recordingTexture) DrawBitmap(st DrawState, dx, dy float64, flags DrawFlags) error {
	t.drv.record("DrawBitmap")
	t.state = st
	return nil
}

func (t *recordingTexture) DrawBitmapRegion(st DrawState, sx, sy, sw, sh, dx, dy float64, flags DrawFlags) error {
	t.drv.record("DrawBitmapRegion")
	t.state = st
	return nil
}

func (t *recordingTexture) DrawScaledBitmap(st DrawState, sx, sy, sw, sh, dx, dy, dw, dh float64, flags DrawFlags) error {
	t.drv.record("DrawScaledBitmap")
	t.state = st
	return nil
}

func (t *recordingTexture) DrawRotatedBitmap(st DrawState, cx, cy, dx, dy, angle float64, flags DrawFlags) error {
	t.drv.record("DrawRotatedBitmap")
	t.state = st
	return nil
}

func (t *recordingTexture) DrawRotatedScaledBitmap(st DrawState, cx, cy, dx, dy, xscale, yscale, angle float64, flags DrawFlags) error {
	t.drv.record("DrawRotatedScaledBitmap")
	t.state = st
	return nil
}

func (t *recordingTexture) Destroy() error {
	t.drv.record("Destroy")
	return nil
}

// newRecordingContext returns a context whose current display runs on a
// recording driver. Calls made while creating the display are cleared.
func newRecordingContext(opts ...ContextOption) (*Context, *recordingDriver) {
	drv := &recordingDriver{}
	dc := NewContext(opts...)
	if _, err := dc.CreateDisplay(drv, 8, 8); err != nil {
		panic(err)
	}
	drv.calls = nil
	return dc, drv
}

// memoryContext returns a context that creates RGBA8 memory bitmaps.
func memoryContext() *Context {
	return NewContext(
		WithNewBitmapFlags(MemoryBitmap),
		WithNewBitmapFormat(pixel.FormatRGBA8),
		WithCodecs(NewCodecRegistry()),
	)
}
