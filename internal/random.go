package internal

import (
	"crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand/v2"
)

// ErrEntropy is returned when the system random source cannot be read.
var ErrEntropy = errors.New("internal: can't read system entropy")

// NewRand returns a ChaCha8 generator seeded from crypto/rand. Each caller
// gets its own generator, they must not be shared across goroutines.
func NewRand() (*mrand.Rand, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntropy, err)
	}

	return mrand.New(mrand.NewChaCha8(seed)), nil
}

// SeededRand returns a deterministic generator. Only use it in tests.
func SeededRand(seed byte) *mrand.Rand {
	var s [32]byte
	for i := range s {
		s[i] = seed
	}

	return mrand.New(mrand.NewChaCha8(s))
}

// IntRange returns a uniformly distributed integer in [lo, hi]. If hi is
// below lo, lo is returned.
func IntRange(rng *mrand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + rng.IntN(hi-lo+1)
}
