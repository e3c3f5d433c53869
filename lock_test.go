package blit

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/gogpu/blit/pixel"
)

func TestLockTwice(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(4, 4)

	first, err := bmp.LockRegion(1, 1, 2, 3, pixel.FormatAny, LockReadWrite)
	if err != nil {
		t.Fatalf("LockRegion() error = %v", err)
	}
	if _, err := bmp.LockRegion(0, 0, 1, 1, pixel.FormatAny, LockReadOnly); !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("second lock error = %v, want ErrAlreadyLocked", err)
	}
	if _, err := bmp.Lock(pixel.FormatRGB8, LockWriteOnly); !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("third lock error = %v, want ErrAlreadyLocked", err)
	}

	want := image.Rect(1, 1, 3, 4)
	if !first.Valid() {
		t.Error("failed lock invalidated the first region")
	}
	if first.Bounds() != want || first.Mode() != LockReadWrite || first.Format() != pixel.FormatRGBA8 {
		t.Errorf("first region = %v %v %v, want %v ReadWrite RGBA8",
			first.Bounds(), first.Mode(), first.Format(), want)
	}
	if st := bmp.lock; st == nil || st.rect != want || st.mode != LockReadWrite || st.staging {
		t.Errorf("lock state = %+v, want %v ReadWrite without staging", st, want)
	}
	if err := bmp.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := bmp.Unlock(); !errors.Is(err, ErrNotLocked) {
		t.Errorf("Unlock() of unlocked bitmap error = %v, want ErrNotLocked", err)
	}
}

func TestLockRegionAddressing(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(4, 4)

	lr, err := bmp.LockRegion(1, 2, 2, 2, pixel.FormatAny, LockWriteOnly)
	if err != nil {
		t.Fatalf("LockRegion() error = %v", err)
	}
	if lr.Pitch() != 16 {
		t.Errorf("Pitch() = %d, want 16", lr.Pitch())
	}
	if lr.Bounds() != image.Rect(1, 2, 3, 4) {
		t.Errorf("Bounds() = %v", lr.Bounds())
	}
	// The region starts at byte (2*4+1)*4 of the bitmap memory.
	if &lr.Bytes()[0] != &bmp.memory[36] {
		t.Error("region does not alias bitmap memory at offset 36")
	}
	if err := lr.SetPixel(1, 1, pixel.Green); err != nil {
		t.Fatalf("SetPixel() error = %v", err)
	}
	_ = bmp.Unlock()

	if got, _ := bmp.Pixel(2, 3); got != pixel.Green {
		t.Errorf("Pixel(2, 3) = %+v, want green", got)
	}
}

func TestLockFourByFour(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(4, 4)

	lr, err := bmp.Lock(pixel.FormatAny, LockWriteOnly)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			_ = lr.SetPixel(x, y, pixel.RGBA8(uint8(x*60), uint8(y*60), 0, 255))
		}
	}
	if err := bmp.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := pixel.RGBA8(uint8(x*60), uint8(y*60), 0, 255)
			if got, _ := bmp.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestLockInvalidRegion(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(4, 4)

	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"empty", 0, 0, 0, 1},
		{"negative origin", -1, 0, 2, 2},
		{"past right", 3, 0, 2, 1},
		{"past bottom", 0, 2, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bmp.LockRegion(tt.x, tt.y, tt.w, tt.h, pixel.FormatAny, LockReadOnly)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("LockRegion() error = %v, want ErrInvalidRegion", err)
			}
			if bmp.IsLocked() {
				t.Error("failed lock left the bitmap locked")
			}
		})
	}
}

func TestLockedRegionInvalidation(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(2, 2)

	lr, _ := bmp.Lock(pixel.FormatAny, LockReadWrite)
	_ = lr.SetPixel(0, 0, pixel.White)
	_ = bmp.Unlock()

	if lr.Valid() {
		t.Error("Valid() = true after Unlock")
	}
	if lr.Bytes() != nil {
		t.Error("Bytes() != nil after Unlock")
	}
	if got := lr.Pixel(0, 0); got != pixel.Transparent {
		t.Errorf("Pixel() = %+v, want transparent", got)
	}
	if err := lr.SetPixel(0, 0, pixel.Red); !errors.Is(err, ErrRegionInvalid) {
		t.Errorf("SetPixel() error = %v, want ErrRegionInvalid", err)
	}

	// A later lock does not revive the old region.
	if _, err := bmp.Lock(pixel.FormatAny, LockReadOnly); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if lr.Valid() {
		t.Error("stale region became valid after relock")
	}
	_ = bmp.Unlock()
}

func TestLockStagingFormat(t *testing.T) {
	dc := memoryContext()
	bmp, _ := dc.CreateBitmap(2, 1)
	_ = dc.WithTarget(bmp, func() error { return dc.PutPixel(0, 0, pixel.Red) })

	lr, err := bmp.Lock(pixel.FormatBGRA8, LockReadWrite)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if lr.Format() != pixel.FormatBGRA8 {
		t.Fatalf("Format() = %v, want BGRA8", lr.Format())
	}
	if got := lr.Bytes()[:4]; !slices.Equal(got, []byte{0, 0, 255, 255}) {
		t.Errorf("red in BGRA8 = %v, want [0 0 255 255]", got)
	}
	_ = lr.SetPixel(1, 0, pixel.Blue)
	if err := bmp.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	if bmp.Format() != pixel.FormatRGBA8 {
		t.Errorf("Format() = %v, storage format changed", bmp.Format())
	}
	if got := bmp.memory[4:8]; !slices.Equal(got, []byte{0, 0, 255, 255}) {
		t.Errorf("blue in RGBA8 memory = %v, want [0 0 255 255]", got)
	}
}

func TestLockInvalidFormat(t *testing.T) {
	bmp, _ := memoryContext().CreateBitmap(1, 1)
	if _, err := bmp.Lock(pixel.Format(200), LockReadOnly); !errors.Is(err, pixel.ErrInvalidFormat) {
		t.Errorf("Lock() error = %v, want ErrInvalidFormat", err)
	}
}

func TestDisplayLockThroughDriver(t *testing.T) {
	dc, drv := newRecordingContext()
	bmp, _ := dc.CreateBitmap(3, 3)
	drv.calls = nil

	lr, err := bmp.LockRegion(1, 1, 2, 2, pixel.FormatAny, LockReadWrite)
	if err != nil {
		t.Fatalf("LockRegion() error = %v", err)
	}
	// The recording driver hands out premultiplied staging memory.
	if lr.Format() != pixel.FormatRGBAPremul || lr.Pitch() != 8 {
		t.Errorf("view = %v pitch %d, want RGBAPremul pitch 8", lr.Format(), lr.Pitch())
	}
	_ = lr.SetPixel(0, 0, pixel.Red)
	if err := bmp.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if want := []string{"LockRegion", "UnlockRegion"}; !slices.Equal(drv.calls, want) {
		t.Errorf("calls = %v, want %v", drv.calls, want)
	}
	tex := drv.textures[len(drv.textures)-1]
	if got := tex.pix.At(1, 1); got != pixel.Red {
		t.Errorf("texture (1, 1) = %+v, want red", got)
	}
}

func TestSyncedLockUploadsRegion(t *testing.T) {
	dc, drv := newRecordingContext(WithNewBitmapFlags(SyncMemoryCopy))
	bmp, _ := dc.CreateBitmap(3, 3)
	drv.calls = nil

	lr, err := bmp.LockRegion(2, 2, 1, 1, pixel.FormatAny, LockWriteOnly)
	if err != nil {
		t.Fatalf("LockRegion() error = %v", err)
	}
	_ = lr.SetPixel(0, 0, pixel.Green)
	if err := bmp.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if want := []string{"Upload"}; !slices.Equal(drv.calls, want) {
		t.Errorf("calls = %v, want %v", drv.calls, want)
	}
	tex := drv.textures[len(drv.textures)-1]
	if got := tex.pix.At(2, 2); got != pixel.Green {
		t.Errorf("texture (2, 2) = %+v, want green", got)
	}
}
