package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/h2non/filetype"

	"github.com/gogpu/blit"
)

// ErrUnknownFormat is returned by Sniff when the content matches no image
// format.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

// sniffLen is the number of leading bytes filetype inspects.
const sniffLen = 262

// Sniff identifies the image format of r from its leading bytes. It
// returns the extension to use with the codec registry, such as ".png",
// and a reader that yields the whole stream including the inspected bytes.
//
// TGA files carry no signature; a stream is reported as ".tga" when no
// other format matches and its header is a plausible TGA header.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", br, fmt.Errorf("imageio: sniff: %w", err)
	}
	if len(head) == 0 {
		return "", br, ErrUnknownFormat
	}

	if filetype.IsImage(head) {
		kind, err := filetype.Match(head)
		if err == nil && kind != filetype.Unknown {
			return "." + kind.Extension, br, nil
		}
	}
	if plausibleTGA(head) {
		return ".tga", br, nil
	}
	return "", br, ErrUnknownFormat
}

// Load decodes a bitmap from r, identifying the format with Sniff and
// decoding it with the stream loader registered in dc's codec registry.
func Load(dc *blit.Context, r io.Reader) (*blit.Bitmap, error) {
	ext, rr, err := Sniff(r)
	if err != nil {
		return nil, err
	}
	return dc.LoadBitmapStream(rr, ext)
}

// plausibleTGA checks the fields of a TGA header that have a small set of
// legal values.
func plausibleTGA(head []byte) bool {
	if len(head) < tgaHeaderLen {
		return false
	}
	cmapType, imageType, depth := head[1], head[2], head[16]
	w := binary.LittleEndian.Uint16(head[12:14])
	h := binary.LittleEndian.Uint16(head[14:16])
	if cmapType > 1 || w == 0 || h == 0 {
		return false
	}
	switch imageType &^ tgaRLE {
	case tgaColorMapped:
		return cmapType == 1 && (depth == 8 || depth == 16)
	case tgaTrueColor:
		return depth == 15 || depth == 16 || depth == 24 || depth == 32
	case tgaGray:
		return depth == 8
	default:
		return false
	}
}
