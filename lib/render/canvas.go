// Package render draws challenge images.
//
// Layers go down in a fixed order: background image, noise, curve, then the
// glyphs of the challenge on top. Every function takes the random source it
// draws from, so one render never shares state with another.
package render

import (
	"image"
	"image/color"
	"image/draw"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/config"
)

// Foreground channels are drawn from this range so ink stays darker than
// noise.
const (
	MinInk, MaxInk = 1, 150
)

// Canvas is the image a single render draws on.
type Canvas struct {
	Image      *image.NRGBA
	Foreground color.NRGBA
	FontSize   int
}

// NewCanvas allocates a canvas sized for cfg, filled with its background
// colour, with a random foreground colour for the curve and glyphs.
func NewCanvas(rng *mrand.Rand, cfg config.Config) *Canvas {
	w, h := config.CanvasSize(cfg)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: cfg.Background[0], G: cfg.Background[1], B: cfg.Background[2], A: 0xff}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	return &Canvas{
		Image:      img,
		Foreground: randomColor(rng, MinInk, MaxInk),
		FontSize:   cfg.FontSize,
	}
}

func (c *Canvas) Width() int  { return c.Image.Bounds().Dx() }
func (c *Canvas) Height() int { return c.Image.Bounds().Dy() }

func randomColor(rng *mrand.Rand, lo, hi int) color.NRGBA {
	return color.NRGBA{
		R: uint8(internal.IntRange(rng, lo, hi)),
		G: uint8(internal.IntRange(rng, lo, hi)),
		B: uint8(internal.IntRange(rng, lo, hi)),
		A: 0xff,
	}
}
