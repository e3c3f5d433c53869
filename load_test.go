package blit

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"slices"
	"testing"

	"github.com/gogpu/blit/pixel"
)

// fakeCodec stores bitmaps as a single RGBA8 pixel followed by nothing.
type fakeCodec struct {
	seen    Matrix
	failErr error
	partial bool
}

func (f *fakeCodec) load(dc *Context, path string) (*Bitmap, error) {
	f.seen = dc.Transform()
	if f.partial {
		bmp, _ := dc.CreateBitmap(1, 1)
		return bmp, f.failErr
	}
	if f.failErr != nil {
		return nil, f.failErr
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	return dc.BitmapFromImage(img)
}

func (f *fakeCodec) streamLoad(dc *Context, r io.Reader) (*Bitmap, error) {
	f.seen = dc.Transform()
	var px [4]byte
	if _, err := io.ReadFull(r, px[:]); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, px[:])
	return dc.BitmapFromImage(img)
}

func (f *fakeCodec) streamSave(_ *Context, w io.Writer, bmp *Bitmap) error {
	img, err := bmp.Image()
	if err != nil {
		return err
	}
	c := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	_, err = w.Write([]byte{c.R, c.G, c.B, c.A})
	return err
}

func newFakeCodecContext(t *testing.T, opts ...ContextOption) (*Context, *fakeCodec) {
	t.Helper()
	fc := &fakeCodec{}
	reg := NewCodecRegistry()
	_ = reg.RegisterLoader(".fake", fc.load)
	_ = reg.RegisterStreamLoader(".fake", fc.streamLoad)
	_ = reg.RegisterStreamSaver(".fake", fc.streamSave)
	opts = append([]ContextOption{WithNewBitmapFlags(MemoryBitmap)}, opts...)
	return NewContext(append(opts, WithCodecs(reg))...), fc
}

func TestLoadBitmapResetsTransform(t *testing.T) {
	dc, fc := newFakeCodecContext(t)
	user := Translate(5, 7)
	dc.SetTransform(user)

	bmp, err := dc.LoadBitmap("dir.with.dots/sprite.FAKE")
	if err != nil {
		t.Fatalf("LoadBitmap() error = %v", err)
	}
	if !fc.seen.IsIdentity() {
		t.Errorf("codec saw transform %+v, want identity", fc.seen)
	}
	if dc.Transform() != user {
		t.Errorf("Transform() = %+v after load, want %+v", dc.Transform(), user)
	}
	if got, _ := bmp.Pixel(0, 0); got != pixel.RGBA8(10, 20, 30, 255) {
		t.Errorf("Pixel(0, 0) = %+v", got)
	}
}

func TestLoadBitmapErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		fail bool
		want error
	}{
		{"no extension", "dir.d/sprite", false, ErrNoExtension},
		{"no handler", "sprite.gif", false, ErrNoHandler},
		{"codec failure", "sprite.fake", true, ErrCodec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, fc := newFakeCodecContext(t)
			if tt.fail {
				fc.failErr = errors.New("corrupt")
			}
			dc.SetTransform(Scale(2, 2))
			bmp, err := dc.LoadBitmap(tt.path)
			if !errors.Is(err, tt.want) || bmp != nil {
				t.Errorf("LoadBitmap() = %v, %v, want nil, %v", bmp, err, tt.want)
			}
			if dc.Transform() != Scale(2, 2) {
				t.Error("transform not restored after failed load")
			}
		})
	}
}

func TestLoadBitmapPartialFailureDestroys(t *testing.T) {
	dc, drv := newRecordingContext()
	fc := &fakeCodec{partial: true, failErr: errors.New("truncated")}
	reg := NewCodecRegistry()
	_ = reg.RegisterLoader(".fake", fc.load)
	dc.codecs = reg
	drv.calls = nil

	if _, err := dc.LoadBitmap("x.fake"); !errors.Is(err, ErrCodec) {
		t.Fatalf("LoadBitmap() error = %v, want ErrCodec", err)
	}
	if want := []string{"NewTexture", "Upload", "Destroy"}; !slices.Equal(drv.calls, want) {
		t.Errorf("calls = %v, want %v", drv.calls, want)
	}
}

func TestSaveBitmapErrors(t *testing.T) {
	dc, _ := newFakeCodecContext(t)
	bmp, _ := dc.CreateBitmap(1, 1)

	if err := dc.SaveBitmap("out.fake", bmp); !errors.Is(err, ErrNoHandler) {
		t.Errorf("SaveBitmap() error = %v, want ErrNoHandler (no file saver)", err)
	}
	if err := dc.SaveBitmap("out", bmp); !errors.Is(err, ErrNoExtension) {
		t.Errorf("SaveBitmap() error = %v, want ErrNoExtension", err)
	}
	if err := dc.SaveBitmap("out.fake", nil); !errors.Is(err, ErrNilBitmap) {
		t.Errorf("SaveBitmap(nil) error = %v, want ErrNilBitmap", err)
	}
	if err := dc.SaveBitmapStream(io.Discard, ".png", bmp); !errors.Is(err, ErrNoHandler) {
		t.Errorf("SaveBitmapStream() error = %v, want ErrNoHandler", err)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	dc, fc := newFakeCodecContext(t)
	dc.SetTransform(Rotate(1))

	bmp, err := dc.LoadBitmapStream(bytes.NewReader([]byte{1, 2, 3, 255}), "FAKE")
	if err != nil {
		t.Fatalf("LoadBitmapStream() error = %v", err)
	}
	if !fc.seen.IsIdentity() {
		t.Errorf("stream codec saw transform %+v, want identity", fc.seen)
	}

	var buf bytes.Buffer
	if err := dc.SaveBitmapStream(&buf, ".fake", bmp); err != nil {
		t.Fatalf("SaveBitmapStream() error = %v", err)
	}
	if got := buf.Bytes(); !slices.Equal(got, []byte{1, 2, 3, 255}) {
		t.Errorf("saved bytes = %v, want [1 2 3 255]", got)
	}

	if _, err := dc.LoadBitmapStream(bytes.NewReader(nil), ".fake"); !errors.Is(err, ErrCodec) {
		t.Errorf("LoadBitmapStream(empty) error = %v, want ErrCodec", err)
	}
}

func TestBitmapFromImageFormat(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Pix[3] = 200

	t.Run("native", func(t *testing.T) {
		dc := NewContext(WithNewBitmapFlags(MemoryBitmap))
		bmp, err := dc.BitmapFromImage(gray)
		if err != nil {
			t.Fatalf("BitmapFromImage() error = %v", err)
		}
		if bmp.Format() != pixel.FormatGray8 {
			t.Errorf("Format() = %v, want Gray8", bmp.Format())
		}
	})

	t.Run("configured", func(t *testing.T) {
		dc := memoryContext()
		bmp, err := dc.BitmapFromImage(gray)
		if err != nil {
			t.Fatalf("BitmapFromImage() error = %v", err)
		}
		if bmp.Format() != pixel.FormatRGBA8 {
			t.Errorf("Format() = %v, want RGBA8", bmp.Format())
		}
		if got, _ := bmp.Pixel(1, 1); got != pixel.RGBA8(200, 200, 200, 255) {
			t.Errorf("Pixel(1, 1) = %+v", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		dc := memoryContext()
		if _, err := dc.BitmapFromImage(image.NewRGBA(image.Rect(0, 0, 0, 3))); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("BitmapFromImage() error = %v, want ErrInvalidDimensions", err)
		}
	})
}

func TestBitmapFromImageUploadsToDisplay(t *testing.T) {
	dc, drv := newRecordingContext()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	bmp, err := dc.BitmapFromImage(img)
	if err != nil {
		t.Fatalf("BitmapFromImage() error = %v", err)
	}
	if bmp.Backing() != BackingDisplay {
		t.Fatalf("Backing() = %v, want Display", bmp.Backing())
	}
	if !slices.Contains(drv.calls, "UnlockRegion") {
		t.Errorf("calls = %v, want pixels written through the driver", drv.calls)
	}
	tex := bmp.texture.(*recordingTexture)
	if got := tex.pix.At(1, 0); got != pixel.Green {
		t.Errorf("texture (1, 0) = %+v, want green", got)
	}
}
