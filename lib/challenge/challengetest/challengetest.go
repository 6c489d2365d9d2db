package challengetest

import (
	mrand "math/rand/v2"
	"testing"

	"github.com/TecharoHQ/sphinx/internal"
	"github.com/google/uuid"
)

// SessionID returns a fresh session identifier.
func SessionID(t *testing.T) string {
	t.Helper()

	return uuid.Must(uuid.NewV7()).String()
}

// Rand returns a generator seeded from the test's name, so reruns of the
// same test draw the same values.
func Rand(t *testing.T) *mrand.Rand {
	t.Helper()

	return internal.SeededRand(internal.FastHash(t.Name())[0])
}
