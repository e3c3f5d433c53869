package soft

import (
	"image"
	"testing"

	"github.com/gogpu/blit/pixel"
)

func TestSurfaceSetAt(t *testing.T) {
	s := New(image.Rect(10, 20, 14, 23), pixel.FormatRGBA8)
	s.Set(11, 21, pixel.Red)

	if got := s.At(11, 21); got != pixel.Red {
		t.Errorf("At(11, 21) = %+v, want red", got)
	}
	if got := s.PixOffset(11, 21); got != 1*16+1*4 {
		t.Errorf("PixOffset(11, 21) = %d, want 20", got)
	}
	// Outside the rectangle reads transparent and writes are dropped.
	s.Set(0, 0, pixel.Blue)
	if got := s.At(0, 0); got != pixel.Transparent {
		t.Errorf("At(0, 0) = %+v, want transparent", got)
	}
}

func TestSurfaceFill(t *testing.T) {
	s := New(image.Rect(0, 0, 4, 4), pixel.FormatRGB565)
	s.Fill(image.Rect(1, 1, 10, 3), pixel.Green)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := pixel.Black
			if x >= 1 && y >= 1 && y < 3 {
				want = pixel.Green
			}
			if got := s.At(x, y); got != want {
				t.Errorf("At(%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		from pixel.Format
		to   pixel.Format
	}{
		{"same format", pixel.FormatRGBA8, pixel.FormatRGBA8},
		{"rgba to bgra", pixel.FormatRGBA8, pixel.FormatBGRA8},
		{"rgba to premul", pixel.FormatRGBA8, pixel.FormatRGBAPremul},
		{"argb to rgb", pixel.FormatARGB8, pixel.FormatRGB8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(image.Rect(0, 0, 3, 2), tt.from)
			src.Set(0, 0, pixel.Red)
			src.Set(2, 1, pixel.Blue)

			// dst only overlaps the right column of src.
			dst := New(image.Rect(2, 0, 5, 2), tt.to)
			Convert(dst, src)

			if got := dst.At(2, 1); got != pixel.Blue {
				t.Errorf("At(2, 1) = %+v, want blue", got)
			}
			if got := dst.At(3, 0); got != tt.to.Quantize(pixel.Transparent) {
				t.Errorf("At(3, 0) = %+v, want untouched", got)
			}
		})
	}
}

func TestImageAdapter(t *testing.T) {
	s := New(image.Rect(0, 0, 2, 2), pixel.FormatRGBA8)
	im := s.Image()
	im.Set(1, 1, pixel.Magenta)

	if got := pixel.FromColor(im.At(1, 1)); got != pixel.Magenta {
		t.Errorf("At(1, 1) = %+v, want magenta", got)
	}
	if im.Bounds() != s.Rect {
		t.Errorf("Bounds() = %v, want %v", im.Bounds(), s.Rect)
	}
}

func TestConvertLarge(t *testing.T) {
	// Big enough to be split across the worker pool.
	r := image.Rect(0, 0, 512, 300)
	src := New(r, pixel.FormatRGBA8)
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x += 7 {
			src.Set(x, y, pixel.RGBA8(uint8(x), uint8(y), uint8(x^y), 255))
		}
	}
	dst := New(r, pixel.FormatBGRA8)
	Convert(dst, src)

	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			if got, want := dst.At(x, y), src.At(x, y); got != want {
				t.Fatalf("At(%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}
