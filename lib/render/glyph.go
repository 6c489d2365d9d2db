package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DPI converts the configured point size to pixels.
const DPI = 96

// Glyph baselines sit between fontSize+MinDrop and fontSize+MaxDrop.
const (
	MinDrop, MaxDrop = 10, 20
)

// LoadFace opens the named font from src, or a random one when name is
// empty, at size points.
func LoadFace(rng *mrand.Rand, src assets.Source, name string, size int) (font.Face, string, error) {
	if name == "" {
		var err error
		if name, err = assets.Pick(rng, src, assets.ExtFont); err != nil {
			return nil, "", err
		}
	}

	data, err := src.Open(name)
	if err != nil {
		return nil, name, err
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, name, fmt.Errorf("render: can't parse font %s: %w", name, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, name, fmt.Errorf("render: can't load font %s: %w", name, err)
	}

	return face, name, nil
}

// GlyphPosition returns the baseline origin of the glyph at index. Codes are
// spread 1.5 font sizes apart, arithmetic puzzles one font size apart.
func GlyphPosition(rng *mrand.Rand, index, fontSize int, arithmetic bool) image.Point {
	spacing := 1.5
	if arithmetic {
		spacing = 1
	}

	return image.Point{
		X: int(float64(fontSize*(index+1)) * spacing),
		Y: fontSize + internal.IntRange(rng, MinDrop, MaxDrop),
	}
}

// DrawGlyph draws s with its baseline origin at pos, rotated angle degrees
// counter-clockwise around that origin.
func DrawGlyph(c *Canvas, face font.Face, pos image.Point, s string, angle float64) {
	half := face.Metrics().Height.Ceil() + 2
	tile := imaging.New(half*2, half*2, color.Transparent)

	d := font.Drawer{
		Dst:  tile,
		Src:  image.NewUniform(c.Foreground),
		Face: face,
		Dot:  fixed.P(half, half),
	}
	d.DrawString(s)

	rotated := imaging.Rotate(tile, angle, color.Transparent)
	rb := rotated.Bounds()
	at := pos.Sub(image.Pt(rb.Dx()/2, rb.Dy()/2))

	draw.Draw(c.Image, image.Rectangle{Min: at, Max: at.Add(rb.Size())}, rotated, rb.Min, draw.Over)
}

// DrawGlyphs draws every character of text, each tilted by the font size in
// degrees.
func DrawGlyphs(c *Canvas, rng *mrand.Rand, face font.Face, text string, arithmetic bool) {
	index := 0
	for _, r := range text {
		pos := GlyphPosition(rng, index, c.FontSize, arithmetic)
		DrawGlyph(c, face, pos, string(r), float64(c.FontSize))
		index++
	}
}
