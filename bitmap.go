package pixconv

import (
	"encoding/binary"
	"fmt"
)

const (
	// bitmapHeaderSize is the size of the file header plus the BITMAPINFOHEADER.
	bitmapHeaderSize = 54
	bitsPerPixel     = 24
	// biRGB is the compression value of uncompressed bitmaps.
	biRGB = 0
)

// BitmapHeader holds the fields of a bitmap header the decoder cares about.
type BitmapHeader struct {
	FileSize     uint32
	DataOffset   uint32
	Width        int32
	Height       int32
	BitsPerPixel uint16
	Compression  uint32
}

// ParseBitmapHeader validates the first 54 bytes of a bitmap file.
// Only uncompressed 24-bit bitmaps are accepted.
func ParseBitmapHeader(header []byte) (*BitmapHeader, error) {
	if len(header) < bitmapHeaderSize {
		return nil, fmt.Errorf("%w: header has %d bytes, expected %d", ErrNotBitmap, len(header), bitmapHeaderSize)
	}
	if header[0] != 'B' || header[1] != 'M' {
		return nil, fmt.Errorf("%w: the first 2 bytes should be 'BM', got %q", ErrNotBitmap, header[:2])
	}

	h := &BitmapHeader{
		FileSize:     binary.LittleEndian.Uint32(header[2:6]),
		DataOffset:   binary.LittleEndian.Uint32(header[10:14]),
		Width:        int32(binary.LittleEndian.Uint32(header[18:22])),
		Height:       int32(binary.LittleEndian.Uint32(header[22:26])),
		BitsPerPixel: binary.LittleEndian.Uint16(header[28:30]),
		Compression:  binary.LittleEndian.Uint32(header[30:34]),
	}
	if h.BitsPerPixel != bitsPerPixel {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrUnsupportedDepth, bitsPerPixel, h.BitsPerPixel)
	}
	if h.Compression != biRGB {
		return nil, fmt.Errorf("%w: compression type %d", ErrCompressedBitmap, h.Compression)
	}
	if h.Width <= 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	return h, nil
}
