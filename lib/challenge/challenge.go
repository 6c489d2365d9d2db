package challenge

import "time"

// Puzzle is a freshly generated secret before it is committed.
type Puzzle struct {
	Plaintext string // What gets drawn onto the image
	Answer    string // Normalised answer a solver has to type
}

// Record is what gets persisted for a session.
type Record struct {
	Key      string    `json:"key"`      // bcrypt hash of the normalised answer
	Mode     string    `json:"mode"`     // Generator that produced the puzzle
	IssuedAt time.Time `json:"issuedAt"` // When the challenge was issued
}
