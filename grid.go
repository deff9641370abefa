package pixconv

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// pixelSize is the number of bytes a pixel takes in the grid buffer (R, G, B).
const pixelSize = 3

// MaxPixels is the largest number of pixels a single grid can hold.
const MaxPixels = 1 << 28

// Pixel holds the three 8-bit channels of a grid element. There is no alpha.
type Pixel struct {
	R, G, B uint8
}

// Grid is a rectangular, row-major buffer of RGB pixels.
// The pixel at (x, y) starts at Pix[y*Stride+x*3].
type Grid struct {
	Width  int
	Height int
	Stride int
	Pix    []uint8
}

// NewGrid allocates a zero filled (black) grid of the given dimensions.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	pix, err := allocPix(width, height)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Width:  width,
		Height: height,
		Stride: width * pixelSize,
		Pix:    pix,
	}, nil
}

// allocPix obtains the backing buffer of a width x height grid.
// Oversized requests and runtime allocation panics are both reported as ErrAllocation.
func allocPix(width, height int) (pix []uint8, err error) {
	if width > MaxPixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, width, height, MaxPixels)
	}
	defer func() {
		if r := recover(); r != nil {
			pix, err = nil, fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	return make([]uint8, width*height*pixelSize), nil
}

// validate checks the grid invariants: positive dimensions and len(Pix) == 3*W*H.
func (g *Grid) validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidDimensions)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, g.Width, g.Height)
	}
	if g.Stride != g.Width*pixelSize || len(g.Pix) != g.Stride*g.Height {
		return fmt.Errorf("%w: buffer of %d bytes does not match %dx%d",
			ErrInvalidDimensions, len(g.Pix), g.Width, g.Height)
	}
	return nil
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (g *Grid) PixOffset(x, y int) int {
	return y*g.Stride + x*pixelSize
}

// Row returns the bytes of row y. The slice aliases the grid buffer.
func (g *Grid) Row(y int) []uint8 {
	return g.Pix[y*g.Stride : (y+1)*g.Stride : (y+1)*g.Stride]
}

// At returns the pixel at (x, y).
func (g *Grid) At(x, y int) Pixel {
	i := g.PixOffset(x, y)
	return Pixel{R: g.Pix[i], G: g.Pix[i+1], B: g.Pix[i+2]}
}

// Set stores the pixel p at (x, y).
func (g *Grid) Set(x, y int, p Pixel) {
	i := g.PixOffset(x, y)
	g.Pix[i] = p.R
	g.Pix[i+1] = p.G
	g.Pix[i+2] = p.B
}

// Fill sets every pixel of the grid to p.
func (g *Grid) Fill(p Pixel) {
	for i := 0; i < len(g.Pix); i += pixelSize {
		g.Pix[i] = p.R
		g.Pix[i+1] = p.G
		g.Pix[i+2] = p.B
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &Grid{
		Width:  g.Width,
		Height: g.Height,
		Stride: g.Stride,
		Pix:    pix,
	}
}

// Equal reports whether both grids have the same dimensions and pixel values.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.Width == o.Width && g.Height == o.Height && bytes.Equal(g.Pix, o.Pix)
}

// FromImage converts any image type to a grid with min-point at (0, 0).
// The alpha channel is dropped.
func FromImage(img image.Image) (*Grid, error) {
	src := imaging.Clone(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	g, err := NewGrid(dx, dy)
	if err != nil {
		return nil, err
	}
	for y := 0; y < dy; y++ {
		si := src.PixOffset(0, y)
		row := g.Row(y)
		for x := 0; x < dx; x++ {
			copy(row[x*pixelSize:x*pixelSize+pixelSize], src.Pix[si:si+pixelSize])
			si += 4
		}
	}
	return g, nil
}

// ToImage converts the grid to a fully opaque *image.NRGBA.
func (g *Grid) ToImage() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		di := dst.PixOffset(0, y)
		row := g.Row(y)
		for x := 0; x < g.Width; x++ {
			copy(dst.Pix[di:di+pixelSize], row[x*pixelSize:x*pixelSize+pixelSize])
			dst.Pix[di+3] = 0xff
			di += 4
		}
	}
	return dst
}
