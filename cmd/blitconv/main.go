// Command blitconv converts, masks and previews images with the blit
// library.
//
// Usage:
//
//	blitconv [flags] convert IN OUT
//	blitconv [flags] mask IN OUT
//	blitconv [flags] preview IN
//	blitconv [flags] info IN...
//	blitconv [flags] copy IN
//	blitconv [flags] paste OUT
//	blitconv formats
//
// The output format follows the OUT extension. Inputs whose extension has
// no codec are identified from their content.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
	_ "github.com/gogpu/blit/backend/headless"
	"github.com/gogpu/blit/imageio"
	"github.com/gogpu/blit/pixel"
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath(), "TOML config file")
		format     = flag.String("format", "", "pixel format of loaded bitmaps, e.g. RGBA8")
		flags      = flag.String("flags", "", "bitmap flags, e.g. MinLinear|MagLinear")
		mask       = flag.String("mask", "", "mask color as hex (default magenta)")
		driver     = flag.String("backend", "", `"memory" or a display driver name`)
		quality    = flag.Int("quality", 0, "JPEG quality 1-100")
		verbose    = flag.Bool("v", false, "log debug messages to stderr")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configPath, !set["config"])
	if err != nil {
		log.Fatalf("blitconv: %v", err)
	}
	if set["format"] {
		cfg.Format = *format
	}
	if set["flags"] {
		cfg.Flags = *flags
	}
	if set["mask"] {
		cfg.Mask = *mask
	}
	if set["backend"] {
		cfg.Backend = *driver
	}
	if set["quality"] {
		cfg.JPEGQuality = *quality
	}
	s, err := cfg.settings()
	if err != nil {
		log.Fatalf("blitconv: %v", err)
	}

	a, err := newApp(s, os.Stdout)
	if err != nil {
		log.Fatalf("blitconv: %v", err)
	}
	err = a.run(flag.Args())
	a.close()
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("blitconv: %v", err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "usage: blitconv [flags] convert|mask|preview|info|copy|paste|formats args...")
	flag.PrintDefaults()
}

var errUsage = errors.New("usage")

// app is one configured blitconv invocation.
type app struct {
	dc      *blit.Context
	display *blit.Display
	s       settings
	out     io.Writer
}

func newApp(s settings, out io.Writer) (*app, error) {
	reg := blit.NewCodecRegistry()
	imageio.Install(reg)
	imageio.JPEGQuality = s.quality

	flags := s.flags
	if s.backend == backendMemory {
		flags |= blit.MemoryBitmap
	}
	opts := []blit.ContextOption{
		blit.WithCodecs(reg),
		blit.WithNewBitmapFormat(s.format),
		blit.WithNewBitmapFlags(flags),
	}
	if s.hasMask {
		opts = append(opts, blit.WithMaskColor(s.mask))
	}
	a := &app{dc: blit.NewContext(opts...), s: s, out: out}

	if s.backend != backendMemory {
		drv, err := backend.Get(s.backend)
		if err != nil {
			return nil, err
		}
		// Bitmaps live on the display; its backbuffer is never shown.
		a.display, err = a.dc.CreateDisplay(drv, 1, 1)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.display != nil {
		_ = a.display.Close()
		a.display = nil
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	want := map[string]int{
		"convert": 2, "mask": 2, "preview": 1, "copy": 1, "paste": 1, "formats": 0,
	}
	if n, ok := want[cmd]; ok && len(args) != n {
		return fmt.Errorf("%s: want %d arguments, got %d: %w", cmd, n, len(args), errUsage)
	}

	switch cmd {
	case "convert":
		return a.convert(args[0], args[1], false)
	case "mask":
		return a.convert(args[0], args[1], true)
	case "preview":
		bmp, err := a.load(args[0])
		if err != nil {
			return err
		}
		cols, rows := terminalSize()
		return preview(a.out, a.dc, bmp, cols, rows, pixel.Black)
	case "info":
		if len(args) == 0 {
			return fmt.Errorf("info: no files: %w", errUsage)
		}
		for _, path := range args {
			if err := a.info(path); err != nil {
				return err
			}
		}
		return nil
	case "copy":
		bmp, err := a.load(args[0])
		if err != nil {
			return err
		}
		return copyToClipboard(a.dc, bmp)
	case "paste":
		bmp, err := pasteFromClipboard(a.dc)
		if err != nil {
			return err
		}
		return a.dc.SaveBitmap(args[0], bmp)
	case "formats":
		return a.formats()
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

// load reads path with the codec for its extension, falling back to
// content sniffing.
func (a *app) load(path string) (*blit.Bitmap, error) {
	bmp, err := a.dc.LoadBitmap(path)
	if !errors.Is(err, blit.ErrNoExtension) && !errors.Is(err, blit.ErrNoHandler) {
		return bmp, err
	}
	f, oerr := os.Open(filepath.Clean(path))
	if oerr != nil {
		return nil, oerr
	}
	defer func() { _ = f.Close() }()
	return imageio.Load(a.dc, f)
}

func (a *app) convert(in, out string, mask bool) error {
	bmp, err := a.load(in)
	if err != nil {
		return err
	}
	defer func() { _ = bmp.Destroy() }()

	if mask {
		if err := a.dc.ConvertMaskToAlphaDefault(bmp); err != nil {
			return err
		}
	}
	return a.dc.SaveBitmap(out, bmp)
}

func (a *app) info(path string) error {
	bmp, err := a.load(path)
	if err != nil {
		return err
	}
	defer func() { _ = bmp.Destroy() }()
	_, err = fmt.Fprintf(a.out, "%s: %dx%d %s %s\n", path, bmp.Width(), bmp.Height(), bmp.Format(), bmp.Backing())
	return err
}

func (a *app) formats() error {
	for _, ext := range a.dc.Codecs().Extensions() {
		e, _ := a.dc.Codecs().Find(ext)
		var caps []string
		if e.Loader != nil {
			caps = append(caps, "load")
		}
		if e.Saver != nil {
			caps = append(caps, "save")
		}
		if _, err := fmt.Fprintf(a.out, "%-6s %s\n", ext, strings.Join(caps, ",")); err != nil {
			return err
		}
	}
	return nil
}
