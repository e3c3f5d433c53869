package pixel

import (
	"errors"
	"testing"
)

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		format    Format
		wantBpp   int
		wantAlpha bool
		wantName  string
	}{
		{FormatRGBA8, 4, true, "RGBA8"},
		{FormatRGBAPremul, 4, true, "RGBAPremul"},
		{FormatBGRA8, 4, true, "BGRA8"},
		{FormatARGB8, 4, true, "ARGB8"},
		{FormatRGB8, 3, false, "RGB8"},
		{FormatRGB565, 2, false, "RGB565"},
		{FormatGray8, 1, false, "Gray8"},
		{FormatAny, 0, false, "Any"},
		{Format(200), 0, false, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.wantBpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.wantBpp)
			}
			if got := tt.format.HasAlpha(); got != tt.wantAlpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.wantAlpha)
			}
			if got := tt.format.String(); got != tt.wantName {
				t.Errorf("String() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestFormatIsValid(t *testing.T) {
	if FormatAny.IsValid() {
		t.Error("FormatAny.IsValid() = true, want false")
	}
	if Format(99).IsValid() {
		t.Error("Format(99).IsValid() = true, want false")
	}
	for _, f := range Formats() {
		if !f.IsValid() {
			t.Errorf("%v.IsValid() = false, want true", f)
		}
	}
}

func TestImageBytes(t *testing.T) {
	if got := FormatRGB8.RowBytes(10); got != 30 {
		t.Errorf("RowBytes(10) = %d, want 30", got)
	}
	if got := FormatRGB565.ImageBytes(4, 3); got != 24 {
		t.Errorf("ImageBytes(4, 3) = %d, want 24", got)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("rgb565")
	if err != nil || f != FormatRGB565 {
		t.Errorf("ParseFormat(rgb565) = %v, %v; want RGB565", f, err)
	}
	if _, err := ParseFormat("cmyk"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(cmyk) error = %v, want ErrInvalidFormat", err)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	samples := []Color{
		RGBA8(0, 0, 0, 255),
		RGBA8(255, 255, 255, 255),
		RGBA8(12, 200, 99, 255),
		RGBA8(255, 0, 255, 255),
	}

	for _, f := range Formats() {
		for _, c := range samples {
			q := f.Quantize(c)
			// Quantization is stable: packing a read-back value reproduces it.
			if again := f.Quantize(q); again != q {
				t.Errorf("%v: Quantize not stable for %+v: %+v then %+v", f, c, q, again)
			}
		}
	}
}

func TestPackExactLayouts(t *testing.T) {
	c := RGBA8(10, 20, 30, 40)
	tests := []struct {
		format Format
		want   []byte
	}{
		{FormatRGBA8, []byte{10, 20, 30, 40}},
		{FormatBGRA8, []byte{30, 20, 10, 40}},
		{FormatARGB8, []byte{40, 10, 20, 30}},
		{FormatRGB8, []byte{10, 20, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			buf := make([]byte, tt.format.BytesPerPixel())
			tt.format.Pack(buf, c)
			for i := range tt.want {
				if buf[i] != tt.want[i] {
					t.Fatalf("Pack() = %v, want %v", buf, tt.want)
				}
			}
			if tt.format.HasAlpha() {
				if got := tt.format.Unpack(buf); got != c {
					t.Errorf("Unpack() = %+v, want %+v", got, c)
				}
			}
		})
	}
}

func TestRGB565(t *testing.T) {
	buf := make([]byte, 2)
	FormatRGB565.Pack(buf, Red)
	if buf[0] != 0x00 || buf[1] != 0xf8 {
		t.Errorf("Pack(Red) = %#x %#x, want 0x00 0xf8", buf[0], buf[1])
	}
	if got := FormatRGB565.Unpack(buf); got != Red {
		t.Errorf("Unpack() = %+v, want %+v", got, Red)
	}
}

func TestPremulTransparent(t *testing.T) {
	buf := make([]byte, 4)
	FormatRGBAPremul.Pack(buf, RGBA(1, 1, 1, 0))
	for i, b := range buf {
		if b != 0 {
			t.Errorf("byte %d = %d, want 0", i, b)
		}
	}
	if got := FormatRGBAPremul.Unpack(buf); got != Transparent {
		t.Errorf("Unpack() = %+v, want Transparent", got)
	}
}

func TestGrayIsOpaque(t *testing.T) {
	buf := []byte{128}
	got := FormatGray8.Unpack(buf)
	if got.A != 1 || got.R != got.G || got.G != got.B {
		t.Errorf("Unpack() = %+v, want opaque gray", got)
	}
}
