package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/disintegration/imaging"
)

// MaxBackgroundPixels bounds how large a background may be before it is
// decoded.
const MaxBackgroundPixels = 4096 * 4096

var ErrBackgroundTooLarge = errors.New("render: background image is too large")

// LoadBackground picks a background from src and decodes it.
func LoadBackground(rng *mrand.Rand, src assets.Source) (image.Image, string, error) {
	name, err := assets.Pick(rng, src, assets.ExtBackground)
	if err != nil {
		return nil, "", err
	}

	data, err := src.Open(name)
	if err != nil {
		return nil, name, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, name, fmt.Errorf("render: can't decode %s: %w", name, err)
	}

	if cfg.Width*cfg.Height > MaxBackgroundPixels {
		return nil, name, fmt.Errorf("%w: %s is %dx%d", ErrBackgroundTooLarge, name, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, name, fmt.Errorf("render: can't decode %s: %w", name, err)
	}

	return img, name, nil
}

// DrawBackground stretches bg over the whole canvas.
func DrawBackground(c *Canvas, bg image.Image) {
	resized := imaging.Resize(bg, c.Width(), c.Height(), imaging.Lanczos)
	c.Image = imaging.Overlay(c.Image, resized, image.Pt(0, 0), 1.0)
}
