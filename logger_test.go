package blit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// withPackageLogger installs l as the package logger for the rest of the test.
func withPackageLogger(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := Logger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })
}

func TestNopHandler(t *testing.T) {
	ctx := context.Background()
	var h slog.Handler = nopHandler{}
	if h.Enabled(ctx, slog.LevelError) {
		t.Error("Enabled(Error) = true")
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	for name, derived := range map[string]slog.Handler{
		"WithAttrs": h.WithAttrs([]slog.Attr{slog.Int("w", 2)}),
		"WithGroup": h.WithGroup("bitmap"),
	} {
		if _, ok := derived.(nopHandler); !ok {
			t.Errorf("%s returned %T", name, derived)
		}
	}
}

func TestPackageLogger(t *testing.T) {
	silent := func(name string, l *slog.Logger) {
		t.Helper()
		if l == nil {
			t.Fatalf("%s: Logger() = nil", name)
		}
		if l.Enabled(context.Background(), slog.LevelDebug) || l.Enabled(context.Background(), slog.LevelError) {
			t.Errorf("%s: logger is enabled", name)
		}
	}
	silent("default", Logger())

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	withPackageLogger(t, custom)
	if Logger() != custom {
		t.Fatal("Logger() is not the logger passed to SetLogger")
	}
	Logger().Debug("bitmap locked", "format", "RGBA8")
	if !strings.Contains(buf.String(), "bitmap locked") {
		t.Errorf("log output = %q", buf.String())
	}

	SetLogger(nil)
	silent("after SetLogger(nil)", Logger())
}

func TestCreateDisplayPropagatesLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	withPackageLogger(t, custom)

	drv := &recordingDriver{}
	if _, err := NewContext().CreateDisplay(drv, 2, 2); err != nil {
		t.Fatalf("CreateDisplay() error = %v", err)
	}
	if drv.logger != custom {
		t.Error("CreateDisplay did not propagate the package logger to the driver")
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	own := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	drv := &recordingDriver{}
	dc := NewContext(WithLogger(own))
	if _, err := dc.CreateDisplay(drv, 2, 2); err != nil {
		t.Fatalf("CreateDisplay() error = %v", err)
	}
	if drv.logger != own {
		t.Error("driver did not receive the context logger")
	}
	if !strings.Contains(buf.String(), "display created") {
		t.Errorf("expected display creation to be logged, got: %s", buf.String())
	}

	// Incompatible draws are skipped with a debug record.
	src, _ := dc.CreateBitmap(1, 1)
	if _, err := dc.CreateDisplay(&recordingDriver{}, 2, 2); err != nil {
		t.Fatalf("CreateDisplay() error = %v", err)
	}
	buf.Reset()
	_ = dc.DrawBitmap(src, 0, 0, 0)
	if !strings.Contains(buf.String(), "draw skipped") {
		t.Errorf("expected skipped draw to be logged, got: %s", buf.String())
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	withPackageLogger(t, Logger())

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(slog.Default())
				SetLogger(nil)
				return
			}
			l := Logger()
			if l == nil {
				t.Error("Logger() = nil")
				return
			}
			l.Debug("draw", "n", i)
		}()
	}
	wg.Wait()
}

func BenchmarkDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("draw skipped", "src", "memory")
	}
}
