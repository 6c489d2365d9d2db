package challenge

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cost is the bcrypt work factor commitments are made with.
const Cost = bcrypt.DefaultCost

// Normalize folds an answer the same way on issue and on check.
func Normalize(answer string) string {
	// Casers carry state, so each call gets its own.
	return cases.Lower(language.Und).String(answer)
}

// Commit hashes the normalised answer.
func Commit(answer string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Normalize(answer)), Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCommit, err)
	}

	return string(hash), nil
}

// Matches reports whether answer satisfies the commitment hash.
func Matches(hash, answer string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(Normalize(answer))) == nil
}
