package render

import (
	"image"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/internal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// NoiseAlphabet is what noise characters are drawn from.
	NoiseAlphabet = "2345678abcdefhijkmnpqrstuvwxyz"

	NoiseColors        = 10
	NoisePerColor      = 5
	MinNoise, MaxNoise = 150, 225

	// noiseOverhang lets noise start slightly off the top and left edges.
	noiseOverhang = 10
)

var noiseFace = basicfont.Face7x13

// DrawNoise scatters light single characters over c. Each character is
// placed by the top left corner of its cell.
func DrawNoise(c *Canvas, rng *mrand.Rand) {
	w, h := c.Width(), c.Height()
	ascent := noiseFace.Metrics().Ascent

	for range NoiseColors {
		d := font.Drawer{
			Dst:  c.Image,
			Src:  image.NewUniform(randomColor(rng, MinNoise, MaxNoise)),
			Face: noiseFace,
		}

		for range NoisePerColor {
			x := internal.IntRange(rng, -noiseOverhang, w)
			y := internal.IntRange(rng, -noiseOverhang, h)
			ch := NoiseAlphabet[internal.IntRange(rng, 0, len(NoiseAlphabet)-1)]

			d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + ascent}
			d.DrawString(string(ch))
		}
	}
}
