package main

import (
	"bytes"
	"errors"
	"sync"

	"golang.design/x/clipboard"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/imageio"
)

var errNoClipboardImage = errors.New("clipboard holds no image")

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func initClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

// copyToClipboard places bmp on the system clipboard as a PNG image.
func copyToClipboard(dc *blit.Context, bmp *blit.Bitmap) error {
	if err := initClipboard(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := dc.SaveBitmapStream(&buf, ".png", bmp); err != nil {
		return err
	}
	// Write returns a channel closed when another program takes ownership;
	// the data stays available until this process exits.
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}

// pasteFromClipboard decodes the image on the system clipboard.
func pasteFromClipboard(dc *blit.Context) (*blit.Bitmap, error) {
	if err := initClipboard(); err != nil {
		return nil, err
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, errNoClipboardImage
	}
	return imageio.Load(dc, bytes.NewReader(data))
}
