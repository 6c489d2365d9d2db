package render

import (
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"

	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/TecharoHQ/sphinx/lib/config"
)

// ErrNoFonts means no font could be loaded. Renders can't continue without
// one.
var ErrNoFonts = errors.New("render: no usable font")

type Options struct {
	Fonts assets.Source

	// Backgrounds is only read when the config asks for a background image.
	// Nil means there are none.
	Backgrounds assets.Source

	Logger *slog.Logger
}

// Draw renders text on a fresh canvas. Background failures are logged and
// skipped, font failures are returned.
func Draw(rng *mrand.Rand, cfg config.Config, text string, opts Options) (*Canvas, error) {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}

	if opts.Fonts == nil {
		return nil, fmt.Errorf("%w: no font source", ErrNoFonts)
	}

	c := NewCanvas(rng, cfg)

	face, fontName, err := LoadFace(rng, opts.Fonts, cfg.FontTTF, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFonts, err)
	}
	defer face.Close()

	lg = lg.With("font", fontName)

	if cfg.UseImgBg {
		switch opts.Backgrounds {
		case nil:
			lg.Debug("no background source, skipping background")
		default:
			bg, name, err := LoadBackground(rng, opts.Backgrounds)
			if err != nil {
				lg.Debug("can't load background, skipping", "background", name, "err", err)
				break
			}

			DrawBackground(c, bg)
		}
	}

	if cfg.UseNoise {
		DrawNoise(c, rng)
	}

	if cfg.UseCurve {
		DrawCurves(c, PlanCurves(rng, c.Width(), c.Height()))
	}

	DrawGlyphs(c, rng, face, text, cfg.Math)

	return c, nil
}
