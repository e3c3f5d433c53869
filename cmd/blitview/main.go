//go:build !headless

// Command blitview shows an image in a window and slowly repairs damage
// done to it.
//
// Holding the left mouse button paints red over the area under the
// cursor, as does enlarging the window. Twice a second the image is drawn
// over the whole window at low opacity, fading the red away.
//
//	blitview [-w 320] [-h 200] [-watch] image.png
//
// With -watch the image is reloaded whenever the file changes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/blit"
	blitebiten "github.com/gogpu/blit/backend/ebiten"
	"github.com/gogpu/blit/imageio"
)

// restoreTicks is the restore interval in updates (0.5 s at 60 TPS).
const restoreTicks = 30

// brush is the size of the area damaged by the mouse.
const brush = 24

type game struct {
	drv    *blitebiten.Driver
	scene  *scene
	watch  *watcher
	path   string
	tick   int
	outW   int
	outH   int
	reload func() (*blit.Bitmap, error)
}

func (g *game) Update() error {
	g.drv.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.watch != nil {
		select {
		case <-g.watch.Changed():
			if bmp, err := g.reload(); err != nil {
				blit.Logger().Warn("blitview: reload failed", "path", g.path, "err", err)
			} else if err := g.scene.replace(bmp); err != nil {
				return err
			}
		default:
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := g.cursor()
		r := image.Rect(x-brush/2, y-brush/2, x+brush/2, y+brush/2)
		if err := g.scene.damage(r); err != nil {
			return err
		}
	}
	g.tick++
	if g.tick%restoreTicks == 0 {
		if err := g.scene.restore(); err != nil {
			return err
		}
	}
	return g.scene.present()
}

// cursor returns the cursor position in display coordinates.
func (g *game) cursor() (int, int) {
	x, y := ebiten.CursorPosition()
	d := g.scene.dc.Display()
	if g.outW > 0 && g.outH > 0 {
		x = x * d.Width() / g.outW
		y = y * d.Height() / g.outH
	}
	return x, y
}

func (g *game) Draw(screen *ebiten.Image) {
	g.drv.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// A larger window exposes area that was never drawn at this size.
	if g.outW > 0 && (outsideWidth > g.outW || outsideHeight > g.outH) {
		d := g.scene.dc.Display()
		exposed := image.Rect(0, 0, d.Width(), d.Height())
		if outsideWidth > g.outW {
			exposed.Min.X = g.outW * d.Width() / outsideWidth
		} else {
			exposed.Min.Y = g.outH * d.Height() / outsideHeight
		}
		if err := g.scene.damage(exposed); err != nil {
			blit.Logger().Warn("blitview: damage failed", "err", err)
		}
	}
	g.outW, g.outH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func main() {
	var (
		width   = flag.Int("w", 320, "display width")
		height  = flag.Int("h", 200, "display height")
		watch   = flag.Bool("watch", false, "reload the image when the file changes")
		verbose = flag.Bool("v", false, "log debug messages to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: blitview [flags] image")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *verbose {
		blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(path, *width, *height, *watch); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("blitview: %v", err)
	}
}

func run(path string, w, h int, watch bool) error {
	imageio.Install(blit.DefaultCodecs())

	drv := blitebiten.New()
	dc := blit.NewContext()
	display, err := dc.CreateDisplay(drv, w, h)
	if err != nil {
		return err
	}
	defer func() { _ = display.Close() }()

	load := func() (*blit.Bitmap, error) { return dc.LoadBitmap(path) }
	img, err := load()
	if err != nil {
		return err
	}
	sc, err := newScene(dc, img)
	if err != nil {
		return err
	}
	if err := sc.present(); err != nil {
		return err
	}

	g := &game{drv: drv, scene: sc, path: path, reload: load}
	if watch {
		if g.watch, err = watchFile(path, blit.Logger()); err != nil {
			return err
		}
		defer func() { _ = g.watch.Close() }()
	}

	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("blitview: " + path)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
