package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/blit"
)

// JPEGQuality is the quality used when saving JPEG files (1-100).
var JPEGQuality = 90

// codec is one built-in image format.
type codec struct {
	name   string
	exts   []string
	decode func(io.Reader) (image.Image, error)

	// encode is nil for formats that are only loaded.
	encode func(io.Writer, image.Image) error
}

var builtin = []codec{
	{name: "PNG", exts: []string{".png"}, decode: png.Decode, encode: png.Encode},
	{name: "JPEG", exts: []string{".jpg", ".jpeg"}, decode: jpeg.Decode, encode: encodeJPEG},
	{name: "BMP", exts: []string{".bmp"}, decode: bmp.Decode, encode: bmp.Encode},
	{name: "TIFF", exts: []string{".tif", ".tiff"}, decode: tiff.Decode, encode: encodeTIFF},
	{name: "WebP", exts: []string{".webp"}, decode: webp.Decode},
	{name: "TGA", exts: []string{".tga"}, decode: DecodeTGA, encode: EncodeTGA},
}

func encodeJPEG(w io.Writer, img image.Image) error {
	q := min(max(JPEGQuality, 1), 100)
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Extensions returns the extensions handled by the built-in codecs.
func Extensions() []string {
	var out []string
	for _, c := range builtin {
		out = append(out, c.exts...)
	}
	return out
}

// Install registers the built-in codecs into reg. Slots that already hold
// a function are left alone, so applications can override single formats
// before or after installing. Install reports whether it registered
// anything; calling it again returns false.
func Install(reg *blit.CodecRegistry) bool {
	added := false
	for _, c := range builtin {
		for _, ext := range c.exts {
			e, _ := reg.Find(ext)
			if e.Loader == nil && reg.RegisterLoader(ext, c.fileLoader()) == nil {
				added = true
			}
			if e.StreamLoader == nil && reg.RegisterStreamLoader(ext, c.streamLoader()) == nil {
				added = true
			}
			if c.encode == nil {
				continue
			}
			if e.Saver == nil && reg.RegisterSaver(ext, c.fileSaver()) == nil {
				added = true
			}
			if e.StreamSaver == nil && reg.RegisterStreamSaver(ext, c.streamSaver()) == nil {
				added = true
			}
		}
	}
	if added {
		blit.Logger().Debug("imageio: codecs installed", "extensions", len(Extensions()))
	}
	return added
}

// Uninstall removes every capability registered for the built-in
// extensions, including ones registered by the application.
func Uninstall(reg *blit.CodecRegistry) {
	for _, ext := range Extensions() {
		e, ok := reg.Find(ext)
		if !ok {
			continue
		}
		if e.Loader != nil {
			_ = reg.RegisterLoader(ext, nil)
		}
		if e.Saver != nil {
			_ = reg.RegisterSaver(ext, nil)
		}
		if e.StreamLoader != nil {
			_ = reg.RegisterStreamLoader(ext, nil)
		}
		if e.StreamSaver != nil {
			_ = reg.RegisterStreamSaver(ext, nil)
		}
	}
}

func (c codec) streamLoader() blit.StreamLoaderFunc {
	return func(dc *blit.Context, r io.Reader) (*blit.Bitmap, error) {
		img, err := c.decode(r)
		if err != nil {
			return nil, fmt.Errorf("imageio: decode %s: %w", c.name, err)
		}
		return dc.BitmapFromImage(img)
	}
}

func (c codec) fileLoader() blit.LoaderFunc {
	load := c.streamLoader()
	return func(dc *blit.Context, path string) (*blit.Bitmap, error) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("imageio: open file: %w", err)
		}
		defer func() { _ = f.Close() }()

		return load(dc, bufio.NewReader(f))
	}
}

func (c codec) streamSaver() blit.StreamSaverFunc {
	return func(_ *blit.Context, w io.Writer, bmp *blit.Bitmap) error {
		img, err := bmp.Image()
		if err != nil {
			return err
		}
		if err := c.encode(w, img); err != nil {
			return fmt.Errorf("imageio: encode %s: %w", c.name, err)
		}
		return nil
	}
}

// fileSaver encodes into a temporary file next to path and renames it over
// path once complete. A failed save leaves any existing file untouched.
func (c codec) fileSaver() blit.SaverFunc {
	save := c.streamSaver()
	return func(dc *blit.Context, path string, bmp *blit.Bitmap) (err error) {
		path = filepath.Clean(path)
		f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
		if err != nil {
			return fmt.Errorf("imageio: create file: %w", err)
		}
		tmp := f.Name()
		defer func() {
			if err != nil {
				_ = f.Close()
				_ = os.Remove(tmp)
			}
		}()

		// CreateTemp makes the file private; saved images are not.
		if err := f.Chmod(0o644); err != nil {
			return fmt.Errorf("imageio: create file: %w", err)
		}

		bw := bufio.NewWriter(f)
		if err := save(dc, bw, bmp); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("imageio: write file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("imageio: write file: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("imageio: write file: %w", err)
		}
		return nil
	}
}
