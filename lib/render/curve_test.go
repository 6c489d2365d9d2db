package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/config"
)

func TestPlanCurvesContinuity(t *testing.T) {
	for _, size := range []struct{ w, h int }{
		{180, 62},
		{270, 62},
		{288, 100},
		{40, 10},
	} {
		for seed := range 64 {
			rng := internal.SeededRand(byte(seed))
			curves := PlanCurves(rng, size.w, size.h)
			first, second := curves[0], curves[1]

			if first.X0 != 0 || second.X1 != size.w {
				t.Fatalf("%dx%d: curves don't span the canvas: %+v", size.w, size.h, curves)
			}

			if first.X1 != second.X0 {
				t.Fatalf("%dx%d: segments don't meet: %d != %d", size.w, size.h, first.X1, second.X0)
			}

			if first.X1 < size.w/2 || first.X1 > int(float64(size.w)*0.8) {
				t.Errorf("%dx%d: split %d out of range", size.w, size.h, first.X1)
			}

			split := float64(first.X1)
			if diff := math.Abs(first.Y(split) - second.Y(split)); diff > 1e-9 {
				t.Errorf("%dx%d seed %d: jump of %f at x=%d", size.w, size.h, seed, diff, first.X1)
			}

			for _, c := range curves {
				if c.A < 1 || c.A > math.Max(1, float64(size.h/2)) {
					t.Errorf("amplitude %f out of range", c.A)
				}

				if c.F < -float64(size.h/4) || c.F > float64(size.h/4) {
					t.Errorf("phase %f out of range", c.F)
				}

				if c.Mid != float64(size.h)/2 {
					t.Errorf("midline %f, want %f", c.Mid, float64(size.h)/2)
				}

				period := 2 * math.Pi / c.W
				if period < float64(size.h)-1e-6 || period > float64(size.w*2)+1e-6 {
					t.Errorf("period %f out of range", period)
				}
			}

			if first.B < -float64(size.h/4) || first.B > float64(size.h/4) {
				t.Errorf("first offset %f out of range", first.B)
			}
		}
	}
}

func TestCurveY(t *testing.T) {
	c := Curve{A: 10, B: 2, F: 0, W: math.Pi / 2, Mid: 31}

	for _, tt := range []struct {
		x, want float64
	}{
		{x: 0, want: 33},
		{x: 1, want: 43},
		{x: 2, want: 33},
		{x: 3, want: 23},
	} {
		if got := c.Y(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Y(%f): want %f, got %f", tt.x, tt.want, got)
		}
	}
}

func countColor(c *Canvas, want color.NRGBA) int {
	var n int
	b := c.Image.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.Image.NRGBAAt(x, y) == want {
				n++
			}
		}
	}
	return n
}

func TestDrawCurves(t *testing.T) {
	rng := internal.SeededRand(3)
	c := NewCanvas(rng, config.Default())

	DrawCurves(c, PlanCurves(rng, c.Width(), c.Height()))

	if countColor(c, c.Foreground) == 0 {
		t.Error("curve drew nothing")
	}
}

func TestDrawCurvesThickness(t *testing.T) {
	cfg := config.Default()
	cfg.FontSize = 25

	c := NewCanvas(internal.SeededRand(1), cfg)
	flat := Curve{A: 0, B: 0, W: 1, Mid: 20, X0: 10, X1: 10}

	DrawCurves(c, [2]Curve{flat, {}})

	for i := 1; i <= cfg.FontSize/5; i++ {
		if got := c.Image.NRGBAAt(10+i, 20+i); got != c.Foreground {
			t.Errorf("pixel (%d, %d) not set", 10+i, 20+i)
		}
	}

	if got := countColor(c, c.Foreground); got != cfg.FontSize/5 {
		t.Errorf("want %d pixels, got %d", cfg.FontSize/5, got)
	}
}

func TestDrawCurvesZeroFrequency(t *testing.T) {
	c := NewCanvas(internal.SeededRand(1), config.Default())

	DrawCurves(c, [2]Curve{{A: 5, X1: c.Width()}, {A: 5, X1: c.Width()}})

	if countColor(c, c.Foreground) != 0 {
		t.Error("segment with zero frequency was drawn")
	}
}
