// Package arithmetic asks for the sum of two small numbers.
package arithmetic

import (
	"fmt"
	mrand "math/rand/v2"
	"strconv"

	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/challenge"
	"github.com/TecharoHQ/sphinx/lib/config"
)

const (
	MinLeft, MaxLeft   = 10, 30
	MinRight, MaxRight = 1, 9
)

func init() {
	challenge.Register(challenge.ModeArithmetic, Impl{})
}

type Impl struct{}

func (Impl) Generate(rng *mrand.Rand, _ config.Config) (challenge.Puzzle, error) {
	x := internal.IntRange(rng, MinLeft, MaxLeft)
	y := internal.IntRange(rng, MinRight, MaxRight)

	return challenge.Puzzle{
		Plaintext: fmt.Sprintf("%d + %d = ", x, y),
		Answer:    strconv.Itoa(x + y),
	}, nil
}
