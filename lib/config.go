package lib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/TecharoHQ/sphinx/data"
	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/TecharoHQ/sphinx/lib/config"
)

// LoadConfigOrDefault reads fname, or the builtin configuration when fname is
// empty.
func LoadConfigOrDefault(fname string) (*config.File, error) {
	var fin io.ReadCloser
	var err error

	if fname != "" {
		fin, err = os.Open(fname)
		if err != nil {
			return nil, fmt.Errorf("can't parse config file %s: %w", fname, err)
		}
	} else {
		fname = "(data)/config.yaml"
		fin, err = data.Config.Open("config.yaml")
		if err != nil {
			return nil, fmt.Errorf("[unexpected] can't parse builtin config file %s: %w", fname, err)
		}
	}

	defer func(fin io.ReadCloser) {
		err := fin.Close()
		if err != nil {
			slog.Error("failed to close config file", "file", fname, "err", err)
		}
	}(fin)

	result, err := config.Load(fin, fname)
	if err != nil {
		return nil, fmt.Errorf("can't parse config file %s: %w", fname, err)
	}

	return result, nil
}

// NewFromFile builds the store and asset sources a config file names. The
// store lives as long as ctx.
func NewFromFile(ctx context.Context, f *config.File, lg *slog.Logger) (*Sphinx, error) {
	st, err := f.Store.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't build %s store: %w", f.Store.Backend, err)
	}

	fonts := assets.Builtin()
	if f.Assets.FontDir != "" {
		fonts = assets.Cached(assets.Dir(f.Assets.FontDir), f.Assets.CacheTTL)
	}

	var backgrounds assets.Source
	if f.Assets.BackgroundDir != "" {
		backgrounds = assets.Cached(assets.Dir(f.Assets.BackgroundDir), f.Assets.CacheTTL)
	}

	return New(Options{
		Store:       st,
		Fonts:       fonts,
		Backgrounds: backgrounds,
		Config:      &f.Captcha,
		Logger:      lg,
	})
}
