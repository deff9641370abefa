package pixconv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformResponse is the value every pixel of a uniform grid takes after the
// convolution, accumulating the taps in the same order as the engine does.
func uniformResponse(v uint8, k Kernel) uint8 {
	var sum float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			sum += float64(v) * k.Weight(1-dy, dx+1)
		}
	}
	return saturate(sum)
}

func TestConvolve_Identity(t *testing.T) {
	for _, dim := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {2, 2}, {31, 17}} {
		src := randomGrid(t, dim[0], dim[1], int64(dim[0]*dim[1]))
		dst, err := Convolve(src, Identity)
		require.NoError(t, err)
		assert.True(t, src.Equal(dst), "identity changed a %dx%d grid", dim[0], dim[1])
	}
}

func TestConvolve_SinglePixelSelfReflection(t *testing.T) {
	px := Pixel{R: 100, G: 37, B: 250}

	// Every preset with exactly representable weights, so that the per tap sum equals p * sum(weights).
	for _, k := range []Kernel{Identity, GaussianBlur, Sharpen, Emboss, EdgeDetect, SobelTop, SobelBottom, SobelLeft, SobelRight} {
		src, err := NewGrid(1, 1)
		require.NoError(t, err)
		src.Set(0, 0, px)

		dst, err := Convolve(src, k)
		require.NoError(t, err)

		want := Pixel{
			R: saturate(float64(px.R) * k.Sum()),
			G: saturate(float64(px.G) * k.Sum()),
			B: saturate(float64(px.B) * k.Sum()),
		}
		assert.Equal(t, want, dst.At(0, 0), k.Name())
	}

	// All nine taps read the single pixel.
	src, _ := NewGrid(1, 1)
	src.Set(0, 0, Pixel{R: 10, G: 10, B: 10})
	ones := NewKernel("ones", [3][3]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	dst, err := Convolve(src, ones)
	require.NoError(t, err)
	assert.Equal(t, Pixel{R: 90, G: 90, B: 90}, dst.At(0, 0))
}

func TestConvolve_Saturation(t *testing.T) {
	assert := assert.New(t)

	src, err := NewGrid(3, 3)
	require.NoError(t, err)
	src.Fill(Pixel{R: 250, G: 250, B: 250})

	double := NewKernel("double", [3][3]float64{{0, 0, 0}, {0, 2, 0}, {0, 0, 0}})
	dst, err := Convolve(src, double)
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(Pixel{R: 255, G: 255, B: 255}, dst.At(x, y))
		}
	}

	negate := NewKernel("negate", [3][3]float64{{0, 0, 0}, {0, -1, 0}, {0, 0, 0}})
	dst, err = Convolve(src, negate)
	require.NoError(t, err)
	assert.Equal(Pixel{}, dst.At(1, 1))

	// A bright dot on black: the neighbours of the dot go negative and must clamp to 0.
	dot, _ := NewGrid(3, 3)
	dot.Set(1, 1, Pixel{R: 200, G: 100, B: 50})
	dst, err = Convolve(dot, EdgeDetect)
	require.NoError(t, err)
	assert.Equal(Pixel{R: 255, G: 255, B: 255}, dst.At(1, 1))
	assert.Equal(Pixel{}, dst.At(0, 0))
	assert.Equal(Pixel{}, dst.At(2, 1))
}

func TestConvolve_BoxBlurWhite(t *testing.T) {
	src, err := NewGrid(3, 3)
	require.NoError(t, err)
	src.Fill(Pixel{R: 255, G: 255, B: 255})

	dst, err := Convolve(src, BoxBlur)
	require.NoError(t, err)

	want := uniformResponse(255, BoxBlur)
	assert.GreaterOrEqual(t, want, uint8(254))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, Pixel{R: want, G: want, B: want}, dst.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestConvolve_ReflectBorder(t *testing.T) {
	assert := assert.New(t)

	// Horizontal ramp 10, 20, 30 on every row.
	src, err := NewGrid(3, 2)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			v := uint8(10 * (x + 1))
			src.Set(x, y, Pixel{R: v, G: v, B: v})
		}
	}

	// Picks the left neighbour: out(x) = src(reflect(x-1)).
	left := NewKernel("left", [3][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}})
	dst, err := Convolve(src, left)
	require.NoError(t, err)
	assert.Equal(uint8(20), dst.At(0, 0).R) // -1 reflects to 1
	assert.Equal(uint8(10), dst.At(1, 0).R)
	assert.Equal(uint8(20), dst.At(2, 0).R)

	// Picks the right neighbour: out(x) = src(reflect(x+1)).
	right := NewKernel("right", [3][3]float64{{0, 0, 0}, {0, 0, 1}, {0, 0, 0}})
	dst, err = Convolve(src, right)
	require.NoError(t, err)
	assert.Equal(uint8(20), dst.At(0, 1).R)
	assert.Equal(uint8(30), dst.At(1, 1).R)
	assert.Equal(uint8(30), dst.At(2, 1).R) // 3 reflects to 2

	// The kernel rows are flipped: row 0 weights the pixel below.
	below := NewKernel("below", [3][3]float64{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}})
	col, _ := NewGrid(1, 3)
	col.Set(0, 0, Pixel{R: 1})
	col.Set(0, 1, Pixel{R: 2})
	col.Set(0, 2, Pixel{R: 3})
	dst, err = Convolve(col, below)
	require.NoError(t, err)
	assert.Equal(uint8(2), dst.At(0, 0).R)
	assert.Equal(uint8(3), dst.At(0, 1).R)
	assert.Equal(uint8(3), dst.At(0, 2).R)
}

func TestConvolve_ReflectIndex(t *testing.T) {
	cases := []struct {
		c, n, want int
	}{
		{-1, 1, 0},
		{1, 1, 0},
		{0, 1, 0},
		{-1, 2, 1},
		{2, 2, 1},
		{-1, 5, 1},
		{5, 5, 4},
		{3, 5, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reflectIndex(tc.c, tc.n), "reflect(%d, %d)", tc.c, tc.n)
	}
}

func TestConvolve_Deterministic(t *testing.T) {
	src := randomGrid(t, 37, 23, 42)
	orig := src.Clone()

	for _, k := range []Kernel{BoxBlur, GaussianBlur, Sharpen, Emboss, EdgeDetect, SobelLeft} {
		want, err := NewEngine(1).Convolve(src, k)
		require.NoError(t, err)

		for _, workers := range []int{2, 3, 7, DefaultWorkers, 64} {
			for run := 0; run < 3; run++ {
				got, err := NewEngine(workers).Convolve(src, k)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "%s differs with %d workers", k.Name(), workers)
			}
		}
	}
	assert.True(t, orig.Equal(src), "the source grid has been modified")
}

func TestConvolve_Bands(t *testing.T) {
	for height := 1; height <= 50; height++ {
		for workers := 1; workers <= 25; workers++ {
			t.Run(fmt.Sprintf("h%d_w%d", height, workers), func(t *testing.T) {
				parts := bands(height, workers)

				want := workers
				if height < workers {
					want = height
				}
				require.Len(t, parts, want)

				next := 0
				for _, b := range parts {
					assert.Equal(t, next, b.start)
					assert.Greater(t, b.end, b.start)
					next = b.end
				}
				assert.Equal(t, height, next)
			})
		}
	}
}

func TestConvolve_InvalidDimensions(t *testing.T) {
	cases := []*Grid{
		nil,
		{},
		{Width: 0, Height: 3},
		{Width: 2, Height: 2, Stride: 6, Pix: make([]uint8, 3)},
	}
	for _, g := range cases {
		dst, err := Convolve(g, Identity)
		assert.ErrorIs(t, err, ErrInvalidDimensions)
		assert.Nil(t, dst)
	}
}

func TestConvolve_DefaultEngine(t *testing.T) {
	assert.Equal(t, DefaultWorkers, NewEngine(0).Workers())
	assert.Equal(t, DefaultWorkers, NewEngine(-4).Workers())
	assert.Equal(t, 3, NewEngine(3).Workers())
}

func BenchmarkConvolve(b *testing.B) {
	src := randomGrid(b, 1024, 768, 7)
	for _, workers := range []int{1, 4, DefaultWorkers} {
		e := NewEngine(workers)
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := e.Convolve(src, GaussianBlur); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
