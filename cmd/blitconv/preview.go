package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/pixel"
)

// Fallback size when stdout is not a terminal.
const (
	defaultCols = 80
	defaultRows = 24
)

// terminalSize returns the size of the terminal on stdout in cells.
func terminalSize() (cols, rows int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultCols, defaultRows
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return defaultCols, defaultRows
	}
	// Leave a line for the prompt.
	return w, max(h-1, 1)
}

// preview prints bmp with 24-bit ANSI colors, two pixel rows per text
// row, shrunk to fit cols×rows cells. Transparent pixels are composited
// over bg.
func preview(w io.Writer, dc *blit.Context, bmp *blit.Bitmap, cols, rows int, bg pixel.Color) error {
	scale := min(float64(cols)/float64(bmp.Width()), float64(2*rows)/float64(bmp.Height()), 1)
	pw := max(int(float64(bmp.Width())*scale), 1)
	ph := max(int(float64(bmp.Height())*scale), 1)

	prevFlags := dc.NewBitmapFlags()
	dc.SetNewBitmapFlags(blit.MemoryBitmap)
	canvas, err := dc.CreateBitmapFormat(pw, ph, pixel.FormatRGB8)
	dc.SetNewBitmapFlags(prevFlags)
	if err != nil {
		return err
	}
	defer func() { _ = canvas.Destroy() }()

	err = dc.WithTarget(canvas, func() error {
		if err := dc.Clear(bg); err != nil {
			return err
		}
		return dc.WithBlender(pixel.AlphaBlender, func() error {
			return dc.WithTransform(blit.Identity(), func() error {
				return dc.DrawScaledBitmap(bmp, 0, 0, float64(bmp.Width()), float64(bmp.Height()),
					0, 0, float64(pw), float64(ph), 0)
			})
		})
	})
	if err != nil {
		return err
	}

	img, err := canvas.Image()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for y := 0; y < ph; y += 2 {
		for x := 0; x < pw; x++ {
			top := pixel.FromColor(img.At(x, y)).NRGBA()
			if y+1 >= ph {
				fmt.Fprintf(bw, "\033[38;2;%d;%d;%dm▀", top.R, top.G, top.B)
				continue
			}
			bot := pixel.FromColor(img.At(x, y+1)).NRGBA()
			fmt.Fprintf(bw, "\033[38;2;%d;%d;%d;48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		fmt.Fprint(bw, "\033[0m\n")
	}
	return bw.Flush()
}
