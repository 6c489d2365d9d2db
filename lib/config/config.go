package config

import (
	"errors"
	"fmt"

	"github.com/TecharoHQ/sphinx"
)

var (
	ErrFontSizeNotPositive = errors.New("config.Config: fontSize must be greater than zero")
	ErrLengthNotPositive   = errors.New("config.Config: length must be greater than zero")
	ErrLengthTooLong       = errors.New("config.Config: length is too long")
	ErrEmptyCodeSet        = errors.New("config.Config: codeSet must not be empty")
	ErrNegativeExpire      = errors.New("config.Config: expire must not be negative")
	ErrNegativeDimension   = errors.New("config.Config: imageW and imageH must not be negative")
	ErrFontSizeTooLarge    = errors.New("config.Config: fontSize is too large")
	ErrCanvasTooLarge      = errors.New("config.Config: image is too large")
)

// DefaultCodeSet leaves out glyphs that are easy to confuse with each other
// (0/O, 1/I, 9/g and friends).
const DefaultCodeSet = "2345678ABCDEFGHJKLMNPQRTUVWXY"

const (
	// ArithmeticLength is the length an arithmetic challenge is laid out with.
	ArithmeticLength = 4

	// MaxLength keeps normalised codes inside what the commitment hash accepts.
	MaxLength = 18

	// MaxFontSize bounds glyph size, and with it the auto-sized canvas.
	MaxFontSize = 200

	// MaxDimension and MaxPixels bound the canvas allocated for one render.
	MaxDimension = 8192
	MaxPixels    = 4096 * 4096
)

// RGB is a red, green, blue triple.
type RGB [3]uint8

// Config holds the rendering and behaviour options of a single challenge.
// Field names on the wire match the option names hosts pass as overrides.
type Config struct {
	// CodeSet is the alphabet codes are drawn from.
	CodeSet string `json:"codeSet"`

	// Expire is the configured lifetime in seconds. Commitments are always
	// stored for sphinx.StoreTTL, this value is carried for hosts that read it.
	Expire int `json:"expire"`

	// UseImgBg composites a random background image under everything else.
	UseImgBg bool `json:"useImgBg"`

	FontSize int  `json:"fontSize"`
	UseCurve bool `json:"useCurve"`
	UseNoise bool `json:"useNoise"`

	// ImageH and ImageW are derived from Length and FontSize when zero.
	ImageH int `json:"imageH"`
	ImageW int `json:"imageW"`

	Length int `json:"length"`

	// FontTTF names a font file in the font source. Empty picks one at random
	// for every render.
	FontTTF string `json:"fontttf"`

	Background RGB `json:"bg"`

	// Math switches from random codes to "X + Y = " puzzles.
	Math bool `json:"math"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CodeSet:    DefaultCodeSet,
		Expire:     sphinx.DefaultExpire,
		UseImgBg:   false,
		FontSize:   sphinx.DefaultFontSize,
		UseCurve:   true,
		UseNoise:   true,
		Length:     sphinx.DefaultLength,
		Background: RGB{243, 251, 254},
	}
}

// EffectiveLength is the number of glyph slots the canvas is sized for.
func (c Config) EffectiveLength() int {
	if c.Math {
		return ArithmeticLength
	}

	return c.Length
}

// CanvasSize returns the image dimensions for c. Explicit dimensions win,
// otherwise width is length*fontSize*1.3 + length*fontSize/2 and height is
// fontSize*2.5, both truncated.
func CanvasSize(c Config) (width, height int) {
	length := float64(c.EffectiveLength())
	fontSize := float64(c.FontSize)

	width, height = c.ImageW, c.ImageH

	if width == 0 {
		width = int(length*fontSize*1.3 + length*fontSize/2)
	}

	if height == 0 {
		height = int(fontSize * 2.5)
	}

	return width, height
}

func (c Config) Valid() error {
	var errs []error

	switch {
	case c.FontSize <= 0:
		errs = append(errs, ErrFontSizeNotPositive)
	case c.FontSize > MaxFontSize:
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrFontSizeTooLarge, c.FontSize, MaxFontSize))
	}

	if !c.Math {
		switch {
		case c.Length <= 0:
			errs = append(errs, ErrLengthNotPositive)
		case c.Length > MaxLength:
			errs = append(errs, fmt.Errorf("%w: %d > %d", ErrLengthTooLong, c.Length, MaxLength))
		}

		if c.CodeSet == "" {
			errs = append(errs, ErrEmptyCodeSet)
		}
	}

	if c.Expire < 0 {
		errs = append(errs, ErrNegativeExpire)
	}

	if c.ImageW < 0 || c.ImageH < 0 {
		errs = append(errs, fmt.Errorf("%w: got %dx%d", ErrNegativeDimension, c.ImageW, c.ImageH))
	}

	if err := c.validSize(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) != 0 {
		return fmt.Errorf("config is not valid:\n%w", errors.Join(errs...))
	}

	return nil
}

// validSize rejects canvases too large to allocate. Dimensions are checked
// one at a time first so their product can't overflow.
func (c Config) validSize() error {
	if c.ImageW > MaxDimension || c.ImageH > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d on a side", ErrCanvasTooLarge, c.ImageW, c.ImageH, MaxDimension)
	}

	// Auto sizing is only bounded once fontSize and length are.
	if c.FontSize > MaxFontSize || c.EffectiveLength() > MaxLength {
		return nil
	}

	w, h := CanvasSize(c)
	if w > MaxDimension || h > MaxDimension || w*h > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, w, h, MaxPixels)
	}

	return nil
}
