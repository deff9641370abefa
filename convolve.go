package pixconv

import (
	"fmt"
	"math"
	"time"

	"github.com/esimov/pixconv/utils"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of row bands a convolution is split into.
const DefaultWorkers = 20

// Engine applies 3x3 kernels over a grid, splitting the rows into
// contiguous bands which are processed concurrently.
type Engine struct {
	workers int
}

// NewEngine creates a convolution engine using the given number of bands.
// A non-positive value falls back to DefaultWorkers.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{workers: workers}
}

// Workers returns the configured number of bands.
func (e *Engine) Workers() int { return e.workers }

var defaultEngine = NewEngine(DefaultWorkers)

// Convolve applies the kernel over the source grid using the default engine.
func Convolve(src *Grid, k Kernel) (*Grid, error) {
	return defaultEngine.Convolve(src, k)
}

// band is the half open row range [start, end) owned by a single worker.
type band struct {
	start, end int
}

// bands splits height rows into equally sized contiguous bands.
// The last band absorbs the remainder. The number of bands never exceeds the number of rows.
func bands(height, workers int) []band {
	workers = utils.Clamp(workers, 1, height)
	size := height / workers

	parts := make([]band, workers)
	for i := range parts {
		parts[i] = band{start: i * size, end: (i + 1) * size}
	}
	parts[workers-1].end = height

	return parts
}

// Convolve returns a new grid holding the source convolved with the kernel.
// The source is never modified. Border pixels are resolved by reflecting the
// out of range coordinates back into the grid.
//
// Either every row is computed or an error is returned and no grid is produced.
func (e *Engine) Convolve(src *Grid, k Kernel) (*Grid, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	dst, err := NewGrid(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	parts := bands(src.Height, e.workers)

	var g errgroup.Group
	for i, b := range parts {
		i, b := i, b
		// Each worker gets the destination rows it owns and nothing more.
		rows := dst.Pix[b.start*dst.Stride : b.end*dst.Stride : b.end*dst.Stride]

		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("convolution worker %d (rows %d-%d) failed: %v", i, b.start, b.end, r)
				}
			}()
			convolveBand(src, &k, rows, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Logger().Debug("convolve",
		"kernel", k.Name(),
		"width", src.Width,
		"height", src.Height,
		"bands", len(parts),
		"elapsed", time.Since(now),
	)
	return dst, nil
}

// convolveBand computes rows [b.start, b.end) into rows, which holds exactly those rows.
func convolveBand(src *Grid, k *Kernel, rows []uint8, b band) {
	width, height := src.Width, src.Height

	for y := b.start; y < b.end; y++ {
		out := rows[(y-b.start)*src.Stride:]

		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for dy := -1; dy <= 1; dy++ {
				line := src.Row(reflectIndex(y+dy, height))
				// The kernel is applied flipped on the vertical axis.
				weights := &k.weights[1-dy]

				for dx := -1; dx <= 1; dx++ {
					i := reflectIndex(x+dx, width) * pixelSize
					w := weights[dx+1]

					sumR += float64(line[i]) * w
					sumG += float64(line[i+1]) * w
					sumB += float64(line[i+2]) * w
				}
			}
			o := x * pixelSize
			out[o] = saturate(sumR)
			out[o+1] = saturate(sumG)
			out[o+2] = saturate(sumB)
		}
	}
}

// reflectIndex mirrors a coordinate that overstepped [0, n) by one pixel back across the edge.
// Negative values map to -c, values past the end map to 2n-1-c.
func reflectIndex(c, n int) int {
	if c < 0 {
		c = -c
	}
	if c >= n {
		c = 2*n - 1 - c
	}
	return c
}

// saturate clamps a channel sum to [0, 255] and truncates it.
func saturate(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(utils.Clamp(v, 0, 255))
}
