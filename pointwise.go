package pixconv

import "github.com/esimov/pixconv/utils"

// Weights and thresholds of the pointwise transforms.
const (
	SaturateWeight   = 0.5
	DesaturateWeight = 0.5
	BrightenWeight   = 50
	DarkenWeight     = 50

	// DimThreshold is the average intensity below which DimToBlack zeroes a pixel.
	DimThreshold = 60
	// BrightThreshold is the average intensity above which BrightToWhite whitens a pixel.
	BrightThreshold = 200
)

// Transform is a pointwise operation which mutates the grid in place.
type Transform func(*Grid)

// average returns the integer mean of the three channels.
func average(r, g, b uint8) uint8 {
	return uint8((int(r) + int(g) + int(b)) / 3)
}

func clampChannel(v int) uint8 {
	return uint8(utils.Clamp(v, 0, 255))
}

// mapPixels calls fn for every pixel with the three channel bytes of the pixel.
func mapPixels(g *Grid, fn func(px []uint8)) {
	for i := 0; i+pixelSize <= len(g.Pix); i += pixelSize {
		fn(g.Pix[i : i+pixelSize : i+pixelSize])
	}
}

// Grayscale replaces every channel with the average of the three channels.
func Grayscale(g *Grid) {
	mapPixels(g, func(px []uint8) {
		avg := average(px[0], px[1], px[2])
		px[0], px[1], px[2] = avg, avg, avg
	})
}

// Invert inverts the color of every pixel.
func Invert(g *Grid) {
	mapPixels(g, func(px []uint8) {
		px[0], px[1], px[2] = 255-px[0], 255-px[1], 255-px[2]
	})
}

// shiftFromAverage moves every channel away from (weight > 0) or
// toward (weight < 0) the pixel average.
func shiftFromAverage(g *Grid, weight float64) {
	mapPixels(g, func(px []uint8) {
		avg := int(average(px[0], px[1], px[2]))
		for c := range px {
			v := int(px[c])
			v += int(weight * float64(v-avg))
			px[c] = clampChannel(v)
		}
	})
}

// Saturate pushes the channels away from the pixel average.
func Saturate(g *Grid) { shiftFromAverage(g, SaturateWeight) }

// Desaturate pulls the channels toward the pixel average.
func Desaturate(g *Grid) { shiftFromAverage(g, -DesaturateWeight) }

func addToChannels(g *Grid, delta int) {
	mapPixels(g, func(px []uint8) {
		for c := range px {
			px[c] = clampChannel(int(px[c]) + delta)
		}
	})
}

// Brighten adds BrightenWeight to every channel.
func Brighten(g *Grid) { addToChannels(g, BrightenWeight) }

// Darken subtracts DarkenWeight from every channel.
func Darken(g *Grid) { addToChannels(g, -DarkenWeight) }

// DimToBlack sets the pixels whose average intensity falls strictly below DimThreshold to black.
// A pixel whose average equals the threshold is kept.
func DimToBlack(g *Grid) {
	mapPixels(g, func(px []uint8) {
		if average(px[0], px[1], px[2]) < DimThreshold {
			px[0], px[1], px[2] = 0, 0, 0
		}
	})
}

// BrightToWhite sets the pixels whose average intensity is strictly above BrightThreshold to white.
func BrightToWhite(g *Grid) {
	mapPixels(g, func(px []uint8) {
		if average(px[0], px[1], px[2]) > BrightThreshold {
			px[0], px[1], px[2] = 255, 255, 255
		}
	})
}

// RedOnly keeps only the red channel.
func RedOnly(g *Grid) {
	mapPixels(g, func(px []uint8) { px[1], px[2] = 0, 0 })
}

// GreenOnly keeps only the green channel.
func GreenOnly(g *Grid) {
	mapPixels(g, func(px []uint8) { px[0], px[2] = 0, 0 })
}

// BlueOnly keeps only the blue channel.
func BlueOnly(g *Grid) {
	mapPixels(g, func(px []uint8) { px[0], px[1] = 0, 0 })
}

// SwapRG swaps the red and green channels.
func SwapRG(g *Grid) {
	mapPixels(g, func(px []uint8) { px[0], px[1] = px[1], px[0] })
}

// SwapRB swaps the red and blue channels.
func SwapRB(g *Grid) {
	mapPixels(g, func(px []uint8) { px[0], px[2] = px[2], px[0] })
}

// SwapGB swaps the green and blue channels.
func SwapGB(g *Grid) {
	mapPixels(g, func(px []uint8) { px[1], px[2] = px[2], px[1] })
}
