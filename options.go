package blit

import (
	"log/slog"

	"github.com/gogpu/blit/pixel"
)

// ContextOption configures a Context during creation.
//
// Example:
//
//	// Memory bitmaps in BGRA
//	dc := blit.NewContext(
//	    blit.WithNewBitmapFlags(blit.MemoryBitmap),
//	    blit.WithNewBitmapFormat(pixel.FormatBGRA8),
//	)
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	flags     BitmapFlags
	format    pixel.Format
	display   *Display
	codecs    *CodecRegistry
	blender   pixel.Blender
	maskColor pixel.Color
	logger    *slog.Logger
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		format:    pixel.FormatAny,
		codecs:    DefaultCodecs(),
		blender:   pixel.AlphaBlender,
		maskColor: pixel.Magenta,
	}
}

// WithNewBitmapFlags sets the flags used by CreateBitmap and LoadBitmap.
func WithNewBitmapFlags(f BitmapFlags) ContextOption {
	return func(o *contextOptions) {
		o.flags = f
	}
}

// WithNewBitmapFormat sets the format used by CreateBitmap and LoadBitmap.
func WithNewBitmapFormat(f pixel.Format) ContextOption {
	return func(o *contextOptions) {
		o.format = f
	}
}

// WithDisplay makes d the current display of the new context.
func WithDisplay(d *Display) ContextOption {
	return func(o *contextOptions) {
		o.display = d
	}
}

// WithCodecs sets the codec registry. Tests use this to isolate codec
// registration from DefaultCodecs.
//
// Example:
//
//	reg := blit.NewCodecRegistry()
//	imageio.Install(reg)
//	dc := blit.NewContext(blit.WithCodecs(reg))
func WithCodecs(r *CodecRegistry) ContextOption {
	return func(o *contextOptions) {
		if r != nil {
			o.codecs = r
		}
	}
}

// WithBlender sets the initial blender.
func WithBlender(b pixel.Blender) ContextOption {
	return func(o *contextOptions) {
		o.blender = b
	}
}

// WithMaskColor sets the initial mask color.
func WithMaskColor(c pixel.Color) ContextOption {
	return func(o *contextOptions) {
		o.maskColor = c
	}
}

// WithLogger gives the context its own logger instead of the package
// logger set with SetLogger.
func WithLogger(l *slog.Logger) ContextOption {
	return func(o *contextOptions) {
		o.logger = l
	}
}
