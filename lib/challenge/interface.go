package challenge

import (
	"fmt"
	mrand "math/rand/v2"
	"sort"
	"sync"

	"github.com/TecharoHQ/sphinx/lib/config"
)

const (
	ModeAlphanumeric = "alphanumeric"
	ModeArithmetic   = "arithmetic"
)

var (
	registry map[string]Generator = map[string]Generator{}
	regLock  sync.RWMutex
)

func Register(name string, impl Generator) {
	regLock.Lock()
	defer regLock.Unlock()

	registry[name] = impl
}

func Get(name string) (Generator, bool) {
	regLock.RLock()
	defer regLock.RUnlock()
	result, ok := registry[name]
	return result, ok
}

func Methods() []string {
	regLock.RLock()
	defer regLock.RUnlock()
	var result []string
	for method := range registry {
		result = append(result, method)
	}
	sort.Strings(result)
	return result
}

// ModeFor names the generator cfg asks for.
func ModeFor(cfg config.Config) string {
	if cfg.Math {
		return ModeArithmetic
	}

	return ModeAlphanumeric
}

// For looks up the generator cfg asks for.
func For(cfg config.Config) (Generator, error) {
	mode := ModeFor(cfg)

	gen, ok := Get(mode)
	if !ok {
		return nil, NewError("generate", "internal error", fmt.Errorf("%w: %q", ErrUnknownMode, mode))
	}

	return gen, nil
}

type Generator interface {
	// Generate draws a new puzzle using randomness from rng only.
	Generate(rng *mrand.Rand, cfg config.Config) (Puzzle, error)
}
