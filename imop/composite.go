package imop

import "errors"

// ErrLayerSize is returned when the layers do not have the same size as the destination.
var ErrLayerSize = errors.New("layer size mismatch")

// Composite blends the layers into dst, byte by byte. The first layer is the initial
// backdrop, every following layer is blended over the accumulated result.
// The destination may alias the first layer.
func (o *Blend) Composite(dst []uint8, layers ...[]uint8) error {
	if len(layers) == 0 {
		return errors.New("nothing to composite")
	}
	for _, l := range layers {
		if len(l) != len(dst) {
			return ErrLayerSize
		}
	}

	copy(dst, layers[0])
	for _, l := range layers[1:] {
		for i, s := range l {
			dst[i] = o.Apply(s, dst[i])
		}
	}
	return nil
}
