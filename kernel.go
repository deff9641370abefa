package pixconv

import (
	"fmt"
	"sort"
)

// Kernel is an immutable 3x3 matrix of convolution weights.
// See https://en.wikipedia.org/wiki/Kernel_(image_processing)
type Kernel struct {
	name    string
	weights [3][3]float64
}

// NewKernel creates a named kernel. The weights are copied.
func NewKernel(name string, weights [3][3]float64) Kernel {
	return Kernel{name: name, weights: weights}
}

// Name returns the kernel preset name.
func (k Kernel) Name() string { return k.name }

// Weight returns the weight at the given row and column.
func (k Kernel) Weight(row, col int) float64 { return k.weights[row][col] }

// Weights returns a copy of the kernel matrix.
func (k Kernel) Weights() [3][3]float64 { return k.weights }

// Sum returns the sum of all the kernel weights, in row-major order.
func (k Kernel) Sum() float64 {
	var sum float64
	for _, row := range k.weights {
		for _, w := range row {
			sum += w
		}
	}
	return sum
}

func (k Kernel) String() string {
	return fmt.Sprintf("%s%v", k.name, k.weights)
}

// Kernel presets.
var (
	Identity = NewKernel("identity", [3][3]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})

	BoxBlur = NewKernel("box-blur", [3][3]float64{
		{.11, .11, .11},
		{.11, .12, .11},
		{.11, .11, .11},
	})

	GaussianBlur = NewKernel("gaussian-blur", [3][3]float64{
		{.0625, .125, .0625},
		{.125, .25, .125},
		{.0625, .125, .0625},
	})

	Sharpen = NewKernel("sharpen", [3][3]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})

	Emboss = NewKernel("emboss", [3][3]float64{
		{-2, -1, 0},
		{-1, 1, 1},
		{0, 1, 2},
	})

	EdgeDetect = NewKernel("edge-detect", [3][3]float64{
		{-2, -2, -2},
		{-2, 16, -2},
		{-2, -2, -2},
	})

	// Directional Sobel variants used by the canny gradient.
	SobelTop = NewKernel("sobel-top", [3][3]float64{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	})

	SobelBottom = NewKernel("sobel-bottom", [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})

	SobelLeft = NewKernel("sobel-left", [3][3]float64{
		{1, 0, -1},
		{2, 0, -2},
		{1, 0, -1},
	})

	SobelRight = NewKernel("sobel-right", [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
)

var kernels = map[string]Kernel{}

func init() {
	for _, k := range []Kernel{
		Identity, BoxBlur, GaussianBlur, Sharpen, Emboss, EdgeDetect,
		SobelTop, SobelBottom, SobelLeft, SobelRight,
	} {
		kernels[k.name] = k
	}
}

// KernelByName looks up a kernel preset.
func KernelByName(name string) (Kernel, bool) {
	k, ok := kernels[name]
	return k, ok
}

// KernelNames returns the sorted names of all the kernel presets.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
