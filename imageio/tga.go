package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrTGA is returned for malformed or unsupported TGA data.
var ErrTGA = errors.New("imageio: invalid TGA")

const tgaHeaderLen = 18

// Image types. tgaRLE is or-ed into the base type for run-length data.
const (
	tgaColorMapped = 1
	tgaTrueColor   = 2
	tgaGray        = 3
	tgaRLE         = 8
)

// Descriptor bits.
const (
	tgaAlphaBits   = 0x0f
	tgaRightToLeft = 0x10
	tgaTopToBottom = 0x20
)

// tgaHeader is the fixed 18-byte TGA header in file order.
type tgaHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	CMapStart    uint16
	CMapLength   uint16
	CMapDepth    uint8
	XOrigin      uint16
	YOrigin      uint16
	Width        uint16
	Height       uint16
	Depth        uint8
	Descriptor   uint8
}

// tgaFooter marks a TGA 2.0 file with no extension or developer area.
var tgaFooter = append(make([]byte, 8), "TRUEVISION-XFILE.\x00"...)

// DecodeTGA reads a TGA image. True-color (15, 16, 24 and 32 bit),
// grayscale and color-mapped images are supported, both uncompressed and
// run-length encoded. Grayscale images decode to *image.Gray, all others
// to *image.NRGBA.
func DecodeTGA(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	var h tgaHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrTGA, err)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrTGA)
	}
	kind := h.ImageType &^ tgaRLE
	if err := checkDepth(kind, h.Depth); err != nil {
		return nil, err
	}
	if _, err := br.Discard(int(h.IDLength)); err != nil {
		return nil, fmt.Errorf("%w: image id: %w", ErrTGA, err)
	}

	palette, err := readPalette(br, &h, kind)
	if err != nil {
		return nil, err
	}

	w, ht := int(h.Width), int(h.Height)
	bpp := (int(h.Depth) + 7) / 8
	data := make([]byte, w*ht*bpp)
	if h.ImageType&tgaRLE != 0 {
		err = readRLE(br, data, bpp)
	} else {
		_, err = io.ReadFull(br, data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: pixel data: %w", ErrTGA, err)
	}

	rect := image.Rect(0, 0, w, ht)
	var gray *image.Gray
	var rgba *image.NRGBA
	if kind == tgaGray {
		gray = image.NewGray(rect)
	} else {
		rgba = image.NewNRGBA(rect)
	}
	alphaBits := h.Descriptor & tgaAlphaBits

	for y := 0; y < ht; y++ {
		dy := ht - 1 - y
		if h.Descriptor&tgaTopToBottom != 0 {
			dy = y
		}
		for x := 0; x < w; x++ {
			dx := x
			if h.Descriptor&tgaRightToLeft != 0 {
				dx = w - 1 - x
			}
			p := data[(y*w+x)*bpp:]
			switch kind {
			case tgaGray:
				gray.Pix[dy*gray.Stride+dx] = p[0]
			case tgaColorMapped:
				i := int(p[0])
				if bpp == 2 {
					i = int(binary.LittleEndian.Uint16(p))
				}
				i -= int(h.CMapStart)
				if i < 0 || i >= len(palette) {
					return nil, fmt.Errorf("%w: color index %d out of range", ErrTGA, i+int(h.CMapStart))
				}
				rgba.SetNRGBA(dx, dy, palette[i])
			default:
				rgba.SetNRGBA(dx, dy, tgaColor(p, h.Depth, alphaBits))
			}
		}
	}
	if gray != nil {
		return gray, nil
	}
	return rgba, nil
}

func checkDepth(kind, depth uint8) error {
	ok := false
	switch kind {
	case tgaTrueColor:
		ok = depth == 15 || depth == 16 || depth == 24 || depth == 32
	case tgaGray:
		ok = depth == 8
	case tgaColorMapped:
		ok = depth == 8 || depth == 16
	default:
		return fmt.Errorf("%w: unsupported image type %d", ErrTGA, kind)
	}
	if !ok {
		return fmt.Errorf("%w: unsupported depth %d for image type %d", ErrTGA, depth, kind)
	}
	return nil
}

// readPalette reads the color map. It is skipped unless the image is
// color-mapped.
func readPalette(br *bufio.Reader, h *tgaHeader, kind uint8) ([]color.NRGBA, error) {
	if h.ColorMapType == 0 {
		if kind == tgaColorMapped {
			return nil, fmt.Errorf("%w: color-mapped image without color map", ErrTGA)
		}
		return nil, nil
	}
	eb := (int(h.CMapDepth) + 7) / 8
	raw := make([]byte, int(h.CMapLength)*eb)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, fmt.Errorf("%w: color map: %w", ErrTGA, err)
	}
	if kind != tgaColorMapped {
		return nil, nil
	}
	switch h.CMapDepth {
	case 15, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: unsupported color map depth %d", ErrTGA, h.CMapDepth)
	}
	pal := make([]color.NRGBA, h.CMapLength)
	for i := range pal {
		// Palette entries carry alpha only when the descriptor says so.
		pal[i] = tgaColor(raw[i*eb:], h.CMapDepth, h.Descriptor&tgaAlphaBits)
	}
	return pal, nil
}

// readRLE expands run-length packets into dst.
func readRLE(br *bufio.Reader, dst []byte, bpp int) error {
	for i := 0; i < len(dst); {
		hdr, err := br.ReadByte()
		if err != nil {
			return err
		}
		n := (int(hdr&0x7f) + 1) * bpp
		if n > len(dst)-i {
			return errors.New("run exceeds image")
		}
		if hdr&0x80 == 0 {
			if _, err := io.ReadFull(br, dst[i:i+n]); err != nil {
				return err
			}
		} else {
			if _, err := io.ReadFull(br, dst[i:i+bpp]); err != nil {
				return err
			}
			for k := bpp; k < n; k += bpp {
				copy(dst[i+k:i+k+bpp], dst[i:i+bpp])
			}
		}
		i += n
	}
	return nil
}

// tgaColor decodes one little-endian BGR(A) pixel.
func tgaColor(p []byte, depth, alphaBits uint8) color.NRGBA {
	switch depth {
	case 15, 16:
		v := binary.LittleEndian.Uint16(p)
		c := color.NRGBA{
			R: expand5(uint8(v >> 10 & 0x1f)),
			G: expand5(uint8(v >> 5 & 0x1f)),
			B: expand5(uint8(v & 0x1f)),
			A: 0xff,
		}
		if depth == 16 && alphaBits > 0 && v&0x8000 == 0 {
			c.A = 0
		}
		return c
	case 24:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	default:
		a := p[3]
		if alphaBits == 0 {
			a = 0xff
		}
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: a}
	}
}

func expand5(v uint8) uint8 { return v<<3 | v>>2 }

// EncodeTGA writes img as an uncompressed 32-bit top-down TGA 2.0 file
// with straight alpha.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return fmt.Errorf("%w: %dx%d exceeds 65535", ErrTGA, b.Dx(), b.Dy())
	}
	h := tgaHeader{
		ImageType:  tgaTrueColor,
		Width:      uint16(b.Dx()),
		Height:     uint16(b.Dy()),
		Depth:      32,
		Descriptor: tgaTopToBottom | 8,
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return err
	}
	row := make([]byte, 4*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			o := (x - b.Min.X) * 4
			row[o], row[o+1], row[o+2], row[o+3] = c.B, c.G, c.R, c.A
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	if _, err := bw.Write(tgaFooter); err != nil {
		return err
	}
	return bw.Flush()
}
