package pixconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Stages(t *testing.T) {
	assert.Equal(t,
		[]string{"grayscale", "gaussian-blur", "edge-detect", "dim-to-black"},
		SimpleEdgeDetect(nil).Stages(),
	)
	assert.Equal(t,
		[]string{"grayscale", "gaussian-blur", "canny-gradient", "dim-to-black"},
		CannyEdgeDetect(nil).Stages(),
	)
}

func TestPipeline_SimpleEdgeDetect(t *testing.T) {
	src := randomGrid(t, 24, 16, 21)
	e := NewEngine(3)

	want := src.Clone()
	Grayscale(want)
	want, err := e.Convolve(want, GaussianBlur)
	require.NoError(t, err)
	want, err = e.Convolve(want, EdgeDetect)
	require.NoError(t, err)
	DimToBlack(want)

	got, err := e.SimpleEdgeDetect(src)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestPipeline_CannyEdgeDetect(t *testing.T) {
	src := randomGrid(t, 24, 16, 22)
	e := NewEngine(5)

	want := src.Clone()
	Grayscale(want)
	want, err := e.Convolve(want, GaussianBlur)
	require.NoError(t, err)
	want, err = e.CannyGradient(want)
	require.NoError(t, err)
	DimToBlack(want)

	got, err := e.CannyEdgeDetect(src)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	// Every surviving pixel is gray and at least as bright as the threshold.
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			px := got.At(x, y)
			assert.Equal(t, px.R, px.G)
			assert.Equal(t, px.R, px.B)
			if px.R != 0 {
				assert.GreaterOrEqual(t, px.R, uint8(DimThreshold))
			}
		}
	}
}

func TestPipeline_EdgeDetectWorkerIndependent(t *testing.T) {
	src := randomGrid(t, 40, 33, 23)

	one, err := NewEngine(1).CannyEdgeDetect(src.Clone())
	require.NoError(t, err)
	many, err := NewEngine(DefaultWorkers).CannyEdgeDetect(src.Clone())
	require.NoError(t, err)
	assert.True(t, one.Equal(many))
}

func TestPipeline_PointStageMutatesInPlace(t *testing.T) {
	src := randomGrid(t, 4, 4, 24)
	p := NewPipeline(nil, PointStage("invert", Invert))

	got, err := p.Run(src)
	require.NoError(t, err)
	assert.Same(t, src, got)

	p = NewPipeline(nil, ConvolveStage(Identity))
	got, err = p.Run(src)
	require.NoError(t, err)
	assert.NotSame(t, src, got)
	assert.True(t, src.Equal(got))
}

func TestPipeline_AbortsOnError(t *testing.T) {
	var calls int
	p := NewPipeline(nil,
		PointStage("count", func(*Grid) { calls++ }),
		Stage{Name: "broken", apply: func(*Engine, *Grid) (*Grid, error) {
			return nil, ErrAllocation
		}},
		PointStage("count", func(*Grid) { calls++ }),
	)

	got, err := p.Run(randomGrid(t, 2, 2, 1))
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Nil(t, got)
	assert.Equal(t, 1, calls)

	got, err = p.Run(&Grid{})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	assert.Nil(t, got)
	assert.Equal(t, 1, calls)
}

func TestPipeline_Effects(t *testing.T) {
	assert := assert.New(t)

	names := Effects()
	assert.Contains(names, "canny")
	assert.Contains(names, "simple-edge")
	assert.Contains(names, "swap-gb")
	assert.Len(names, 22)

	p, err := EffectPipeline(nil, "invert", "sharpen", "canny")
	require.NoError(t, err)
	assert.Equal([]string{"invert", "sharpen", "grayscale", "gaussian-blur", "canny-gradient", "dim-to-black"}, p.Stages())

	_, err = EffectPipeline(nil, "invert", "posterize")
	assert.ErrorIs(err, ErrUnknownEffect)

	// No effect at all hands back the source grid.
	p, err = EffectPipeline(nil)
	require.NoError(t, err)
	src := randomGrid(t, 3, 3, 2)
	got, err := p.Run(src)
	require.NoError(t, err)
	assert.Same(src, got)
}
