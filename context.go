package blit

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/blit/pixel"
)

// Context holds the drawing state that bitmap operations consult: the
// configuration for new bitmaps, the current display, the target bitmap,
// the blender, the transform, the mask color and the codec registry.
//
// A Context is not safe for concurrent use. Helpers that change state
// temporarily (WithTarget, WithBlender, WithTransform, PushTarget and
// PopTarget) restore the previous state on every exit path.
type Context struct {
	newFlags  BitmapFlags
	newFormat pixel.Format

	display     *Display
	target      *Bitmap
	targetStack []*Bitmap

	blender   pixel.Blender
	transform Matrix
	maskColor pixel.Color

	codecs *CodecRegistry
	logger *slog.Logger
}

// NewContext creates a context. Without options new bitmaps are memory
// bitmaps in FormatAny, the blender is source-over, the transform is the
// identity and codecs come from DefaultCodecs.
//
// Example:
//
//	dc := blit.NewContext(blit.WithNewBitmapFlags(blit.MemoryBitmap))
//	bmp, err := dc.CreateBitmap(64, 64)
func NewContext(opts ...ContextOption) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dc := &Context{
		newFlags:  o.flags,
		newFormat: o.format,
		blender:   o.blender,
		transform: Identity(),
		maskColor: o.maskColor,
		codecs:    o.codecs,
		logger:    o.logger,
	}
	if o.display != nil {
		dc.SetDisplay(o.display)
	}
	return dc
}

// log returns the context logger, falling back to the package logger.
func (dc *Context) log() *slog.Logger {
	if dc.logger != nil {
		return dc.logger
	}
	return Logger()
}

// NewBitmapFlags returns the flags used for new bitmaps.
func (dc *Context) NewBitmapFlags() BitmapFlags { return dc.newFlags }

// SetNewBitmapFlags sets the flags used for new bitmaps.
func (dc *Context) SetNewBitmapFlags(f BitmapFlags) { dc.newFlags = f }

// NewBitmapFormat returns the format used for new bitmaps.
func (dc *Context) NewBitmapFormat() pixel.Format { return dc.newFormat }

// SetNewBitmapFormat sets the format used for new bitmaps. FormatAny keeps
// the native format of loaded images and the driver's format for display
// bitmaps.
func (dc *Context) SetNewBitmapFormat(f pixel.Format) { dc.newFormat = f }

// Codecs returns the codec registry used by LoadBitmap and SaveBitmap.
func (dc *Context) Codecs() *CodecRegistry { return dc.codecs }

// Display returns the current display, or nil.
func (dc *Context) Display() *Display { return dc.display }

// SetDisplay makes d current and targets its backbuffer. Passing nil makes
// new bitmaps memory bitmaps and leaves the target unchanged.
func (dc *Context) SetDisplay(d *Display) {
	dc.display = d
	if d != nil {
		dc.target = d.backbuffer
	}
}

// CreateDisplay creates a w×h display on drv, makes it current and targets
// its backbuffer.
func (dc *Context) CreateDisplay(drv Driver, w, h int) (*Display, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	log := dc.log()
	propagateLogger(drv, log)

	d := &Display{driver: drv, width: w, height: h}
	bb, err := newDisplayBitmap(d, w, h, pixel.FormatAny, dc.newFlags&^MemoryBitmap, log)
	if err != nil {
		return nil, err
	}
	d.backbuffer = bb
	log.Info("blit: display created", "driver", drv.Name(), "w", w, "h", h, "format", bb.format)

	dc.SetDisplay(d)
	return d, nil
}

// Target returns the bitmap drawing operations write to.
func (dc *Context) Target() *Bitmap { return dc.target }

// SetTarget sets the bitmap drawing operations write to.
func (dc *Context) SetTarget(b *Bitmap) { dc.target = b }

// PushTarget saves the current target and makes b the target.
// Every PushTarget must be matched by a PopTarget.
func (dc *Context) PushTarget(b *Bitmap) {
	dc.targetStack = append(dc.targetStack, dc.target)
	dc.target = b
}

// PopTarget restores the target saved by the last PushTarget.
// It does nothing when the stack is empty.
func (dc *Context) PopTarget() {
	n := len(dc.targetStack)
	if n == 0 {
		return
	}
	dc.target = dc.targetStack[n-1]
	dc.targetStack[n-1] = nil
	dc.targetStack = dc.targetStack[:n-1]
}

// WithTarget runs fn with b as the target and restores the previous target
// afterwards, also when fn fails or panics.
func (dc *Context) WithTarget(b *Bitmap, fn func() error) error {
	dc.PushTarget(b)
	defer dc.PopTarget()
	return fn()
}

// Blender returns the current blender.
func (dc *Context) Blender() pixel.Blender { return dc.blender }

// SetBlender sets the blender used by drawing operations.
func (dc *Context) SetBlender(b pixel.Blender) { dc.blender = b }

// WithBlender runs fn with b as the blender and restores the previous one.
func (dc *Context) WithBlender(b pixel.Blender, fn func() error) error {
	prev := dc.blender
	dc.blender = b
	defer func() { dc.blender = prev }()
	return fn()
}

// Transform returns the current transform.
func (dc *Context) Transform() Matrix { return dc.transform }

// SetTransform sets the transform applied to drawing operations.
func (dc *Context) SetTransform(m Matrix) { dc.transform = m }

// WithTransform runs fn with m as the transform and restores the previous
// one.
func (dc *Context) WithTransform(m Matrix, fn func() error) error {
	prev := dc.transform
	dc.transform = m
	defer func() { dc.transform = prev }()
	return fn()
}

// MaskColor returns the color ConvertMaskToAlphaDefault makes transparent.
func (dc *Context) MaskColor() pixel.Color { return dc.maskColor }

// SetMaskColor sets the color ConvertMaskToAlphaDefault makes transparent.
func (dc *Context) SetMaskColor(c pixel.Color) { dc.maskColor = c }
