package pixconv

import (
	"fmt"

	"github.com/esimov/pixconv/imop"
)

// sobelKernels are the four directional kernels of the gradient set, in evaluation order.
var sobelKernels = [...]Kernel{SobelTop, SobelBottom, SobelLeft, SobelRight}

// CannyGradient runs the four directional Sobel kernels over the source and merges
// the responses by keeping, for every pixel and channel, the largest of the four values.
// This is the channel-wise maximum, not the gradient vector norm.
//
// The source is expected to be grayscaled and blurred already. It is not modified.
func (e *Engine) CannyGradient(src *Grid) (*Grid, error) {
	var gradients [len(sobelKernels)]*Grid

	for i, k := range sobelKernels {
		g, err := e.Convolve(src, k)
		if err != nil {
			return nil, fmt.Errorf("canny gradient %s: %w", k.Name(), err)
		}
		gradients[i] = g
	}

	// The top response becomes the output, the other three are released after blending.
	dst := gradients[0]
	blend := imop.NewBlend()
	if err := blend.Set(imop.Lighten); err != nil {
		return nil, err
	}
	if err := blend.Composite(dst.Pix,
		gradients[0].Pix, gradients[1].Pix, gradients[2].Pix, gradients[3].Pix,
	); err != nil {
		return nil, fmt.Errorf("canny gradient: %w", err)
	}
	return dst, nil
}

// CannyGradient applies the gradient combiner using the default engine.
func CannyGradient(src *Grid) (*Grid, error) {
	return defaultEngine.CannyGradient(src)
}
