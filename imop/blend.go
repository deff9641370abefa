// Package imop implements the blend operation used for mixing
// raw 8-bit channel buffers together.
//
// The blend operates on each channel value independently, which means
// the same buffer layout (RGB, gray or anything else) is preserved on output.
// It merges the directional gradients of the edge detector, but any number
// of equally sized buffers can be combined.
package imop

import (
	"fmt"

	"github.com/esimov/pixconv/utils"
)

// Lighten keeps the brighter of the source and backdrop values.
const Lighten = "lighten"

var blendModes = []string{Lighten}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activate one of the supported blend mode.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType

	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// Apply blends the source channel value s over the backdrop value b.
// With no blend mode set the source value is returned.
func (o *Blend) Apply(s, b uint8) uint8 {
	if o.OpType == Lighten {
		return utils.Max(s, b)
	}
	return s
}
