// Package alphanumeric draws codes from the configured alphabet.
package alphanumeric

import (
	mrand "math/rand/v2"
	"strings"

	"github.com/TecharoHQ/sphinx/lib/challenge"
	"github.com/TecharoHQ/sphinx/lib/config"
)

func init() {
	challenge.Register(challenge.ModeAlphanumeric, Impl{})
}

type Impl struct{}

func (Impl) Generate(rng *mrand.Rand, cfg config.Config) (challenge.Puzzle, error) {
	alphabet := []rune(cfg.CodeSet)
	if len(alphabet) == 0 {
		return challenge.Puzzle{}, challenge.NewError("generate", "bad configuration", challenge.ErrEmptyAlphabet)
	}

	if cfg.Length <= 0 {
		return challenge.Puzzle{}, challenge.NewError("generate", "bad configuration", challenge.ErrBadLength)
	}

	var sb strings.Builder
	for range cfg.Length {
		sb.WriteRune(alphabet[rng.IntN(len(alphabet))])
	}

	code := sb.String()

	return challenge.Puzzle{
		Plaintext: code,
		Answer:    challenge.Normalize(code),
	}, nil
}
