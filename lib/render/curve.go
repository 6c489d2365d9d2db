package render

import (
	"math"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/internal"
)

// Curve is one segment of y = A*sin(W*x + F) + B + Mid, drawn for every
// integer x in [X0, X1].
type Curve struct {
	A, B, F, W float64
	Mid        float64
	X0, X1     int
}

// Y evaluates the curve at x.
func (c Curve) Y(x float64) float64 {
	return c.A*math.Sin(c.W*x+c.F) + c.B + c.Mid
}

func planSegment(rng *mrand.Rand, w, h int) Curve {
	c := Curve{
		A:   float64(internal.IntRange(rng, 1, h/2)),
		F:   float64(internal.IntRange(rng, -(h / 4), h/4)),
		Mid: float64(h) / 2,
	}

	if period := internal.IntRange(rng, h, w*2); period > 0 {
		c.W = 2 * math.Pi / float64(period)
	}

	return c
}

// PlanCurves lays out the two joined sine segments of the interference line
// for a w by h canvas. The first runs from the left edge to a random split
// between half and four fifths of the width, the second from the split to
// the right edge. The second segment's B is solved so both segments meet at
// the split.
func PlanCurves(rng *mrand.Rand, w, h int) [2]Curve {
	first := planSegment(rng, w, h)
	first.B = float64(internal.IntRange(rng, -(h / 4), h/4))
	first.X0 = 0
	first.X1 = internal.IntRange(rng, w/2, int(float64(w)*0.8))

	second := planSegment(rng, w, h)
	split := float64(first.X1)
	second.B = first.Y(split) - second.A*math.Sin(second.W*split+second.F) - second.Mid
	second.X0 = first.X1
	second.X1 = w

	return [2]Curve{first, second}
}

// DrawCurves stipples each curve onto c in its foreground colour. Every x
// gets fontSize/5 pixels stepped diagonally down and right of the curve.
// Segments with a zero frequency are skipped.
func DrawCurves(c *Canvas, curves [2]Curve) {
	thickness := c.FontSize / 5

	for _, curve := range curves {
		if curve.W == 0 {
			continue
		}

		for px := curve.X0; px <= curve.X1; px++ {
			py := curve.Y(float64(px))

			for i := thickness; i > 0; i-- {
				c.Image.SetNRGBA(px+i, int(py+float64(i)), c.Foreground)
			}
		}
	}
}
