package pixconv

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// decodeImage decodes the source into a grid. Bitmaps are checked against
// the 24-bit header first, every other format supported by imaging is accepted as is.
func decodeImage(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	var (
		img image.Image
		err error
	)
	if magic, _ := br.Peek(2); bytes.Equal(magic, []byte("BM")) {
		header, err := br.Peek(bitmapHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("could not read the bitmap header: %w", err)
		}
		if _, err := ParseBitmapHeader(header); err != nil {
			return nil, err
		}
		if img, err = bmp.Decode(br); err != nil {
			return nil, fmt.Errorf("could not decode the bitmap: %w", err)
		}
	} else {
		if img, err = imaging.Decode(br); err != nil {
			return nil, fmt.Errorf("could not decode the source image: %w", err)
		}
	}
	return FromImage(img)
}

// encodeImage encodes the grid to a destination of type io.Writer.
// Files are encoded by their extension, anything else (pipes included) as a 24-bit bitmap.
func encodeImage(w io.Writer, g *Grid) error {
	switch w := w.(type) {
	case *os.File:
		ext := strings.ToLower(filepath.Ext(w.Name()))
		switch ext {
		case "", ".bmp":
			return bmp.Encode(w, toRGBA(g))
		default:
			format, err := imaging.FormatFromExtension(ext)
			if err != nil {
				return fmt.Errorf("unsupported image format %q: %w", ext, err)
			}
			return imaging.Encode(w, g.ToImage(), format, imaging.JPEGQuality(100))
		}
	default:
		return bmp.Encode(w, toRGBA(g))
	}
}

// toRGBA converts the grid to an opaque *image.RGBA, which the bitmap encoder stores with 24 bits per pixel.
func toRGBA(g *Grid) *image.RGBA {
	nrgba := g.ToImage()
	return &image.RGBA{
		Pix:    nrgba.Pix,
		Stride: nrgba.Stride,
		Rect:   nrgba.Rect,
	}
}
