package lib

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TecharoHQ/sphinx"
	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/TecharoHQ/sphinx/lib/challenge"
	"github.com/TecharoHQ/sphinx/lib/config"
	"github.com/TecharoHQ/sphinx/lib/render"
	"github.com/TecharoHQ/sphinx/lib/store"

	// challenge implementations
	_ "github.com/TecharoHQ/sphinx/lib/challenge/alphanumeric"
	_ "github.com/TecharoHQ/sphinx/lib/challenge/arithmetic"
)

var (
	ErrEmptySession = errors.New("lib: session identifier is empty")
	ErrNoStore      = errors.New("lib: no store configured")
	ErrBadConfig    = errors.New("lib: configuration is invalid")

	// ErrNoFonts means no font could be loaded for a render.
	ErrNoFonts = render.ErrNoFonts
)

type Options struct {
	// Store keeps commitments between Create and Check. Required.
	Store store.Interface

	// Fonts defaults to the fonts compiled into the binary.
	Fonts assets.Source

	// Backgrounds is only read when a config asks for a background image.
	Backgrounds assets.Source

	// Config is the base every call's overrides apply to. Nil means
	// config.Default().
	Config *config.Config

	Logger *slog.Logger
}

// Sphinx issues and checks challenges. It is safe for concurrent use, each
// call renders on its own canvas with its own random source.
type Sphinx struct {
	store       *store.JSON[challenge.Record]
	fonts       assets.Source
	backgrounds assets.Source
	cfg         config.Config
	lg          *slog.Logger
}

// Issued is everything a call to Issue produced.
type Issued struct {
	PNG     []byte
	DataURI string
	Width   int
	Height  int

	// Plaintext is what the image shows. It must never be handed to the
	// party solving the challenge.
	Plaintext string

	// Commitment is the bcrypt hash that was stored for the session.
	Commitment string
}

func New(opts Options) (*Sphinx, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	if err := cfg.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	if opts.Fonts == nil {
		opts.Fonts = assets.Builtin()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Sphinx{
		store: &store.JSON[challenge.Record]{
			Underlying: opts.Store,
			Prefix:     sphinx.KeyPrefix,
		},
		fonts:       opts.Fonts,
		backgrounds: opts.Backgrounds,
		cfg:         cfg,
		lg:          opts.Logger,
	}, nil
}

// Config returns the base configuration overrides are applied to.
func (s *Sphinx) Config() config.Config {
	return s.cfg
}

// storeKey is the digest the session's commitment is kept under, before
// the store prefix is added.
func storeKey(sessionID string) string {
	return internal.MD5sum(sessionID)
}

// Create issues a challenge for sessionID and returns its image as a
// data:image/png;base64 URI. A previous challenge for the same session is
// replaced.
func (s *Sphinx) Create(ctx context.Context, sessionID string, o config.Overrides) (string, error) {
	iss, err := s.Issue(ctx, sessionID, o)
	if err != nil {
		return "", err
	}

	return iss.DataURI, nil
}

// CreateFromMap is Create with loosely typed overrides, such as request
// parameters. Unknown or malformed keys are ignored.
func (s *Sphinx) CreateFromMap(ctx context.Context, sessionID string, overrides map[string]any) (string, error) {
	return s.Create(ctx, sessionID, config.ParseOverrides(overrides))
}

// Issue is Create for hosts that want the raw PNG.
func (s *Sphinx) Issue(ctx context.Context, sessionID string, o config.Overrides) (*Issued, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}

	cfg := o.Apply(s.cfg)
	if err := cfg.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	lg := internal.SessionLogger(s.lg, sessionID)
	mode := challenge.ModeFor(cfg)

	rng, err := internal.NewRand()
	if err != nil {
		lg.Error("can't seed random source", "err", err)
		return nil, err
	}

	gen, err := challenge.For(cfg)
	if err != nil {
		return nil, err
	}

	puzzle, err := gen.Generate(rng, cfg)
	if err != nil {
		return nil, err
	}

	commitment, err := challenge.Commit(puzzle.Answer)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	canvas, err := render.Draw(rng, cfg, puzzle.Plaintext, render.Options{
		Fonts:       s.fonts,
		Backgrounds: s.backgrounds,
		Logger:      lg,
	})
	if err != nil {
		lg.Error("can't render challenge", "err", err)
		return nil, err
	}

	pngData, err := render.EncodePNG(canvas.Image)
	if err != nil {
		lg.Error("can't encode challenge", "err", err)
		return nil, err
	}
	challenge.RenderTime.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	if err := s.store.Set(ctx, storeKey(sessionID), challenge.Record{
		Key:      commitment,
		Mode:     mode,
		IssuedAt: time.Now(),
	}, sphinx.StoreTTL); err != nil {
		lg.Error("can't store commitment", "err", err)
		return nil, fmt.Errorf("lib: can't store commitment: %w", err)
	}

	challenge.Issued.WithLabelValues(mode).Inc()
	lg.Debug("issued challenge", "mode", mode, "width", canvas.Width(), "height", canvas.Height())

	return &Issued{
		PNG:        pngData,
		DataURI:    render.DataURI(pngData),
		Width:      canvas.Width(),
		Height:     canvas.Height(),
		Plaintext:  puzzle.Plaintext,
		Commitment: commitment,
	}, nil
}

// Check reports whether answer solves the challenge issued for sessionID.
// Answers are compared case-insensitively. A correct answer consumes the
// challenge, a wrong one leaves it in place until it expires.
func (s *Sphinx) Check(ctx context.Context, sessionID, answer string) bool {
	if sessionID == "" {
		challenge.Validated.WithLabelValues("missing").Inc()
		return false
	}

	lg := internal.SessionLogger(s.lg, sessionID)
	key := storeKey(sessionID)

	ok, err := s.store.Has(ctx, key)
	if err != nil {
		lg.Error("can't look up commitment", "err", err)
		challenge.Validated.WithLabelValues("error").Inc()
		return false
	}

	if !ok {
		lg.Debug("no challenge for session")
		challenge.Validated.WithLabelValues("missing").Inc()
		return false
	}

	rec, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		lg.Debug("challenge expired during check")
		challenge.Validated.WithLabelValues("missing").Inc()
		return false
	case err != nil:
		lg.Error("can't read commitment", "err", err)
		challenge.Validated.WithLabelValues("error").Inc()
		return false
	}

	if !challenge.Matches(rec.Key, answer) {
		lg.Debug("wrong answer")
		challenge.Validated.WithLabelValues("fail").Inc()
		return false
	}

	// Losing a race to a concurrent correct answer still counts as a pass.
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
		lg.Error("can't consume commitment", "err", err)
		challenge.Validated.WithLabelValues("error").Inc()
		return false
	}

	challenge.Validated.WithLabelValues("pass").Inc()
	if !rec.IssuedAt.IsZero() {
		challenge.TimeTaken.WithLabelValues(rec.Mode).Observe(time.Since(rec.IssuedAt).Seconds())
	}
	lg.Debug("challenge passed", "mode", rec.Mode)

	return true
}
