package challenge

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAlphabet = errors.New("challenge: code set is empty")
	ErrBadLength     = errors.New("challenge: code length must be greater than zero")
	ErrUnknownMode   = errors.New("challenge: unknown generator")
	ErrCommit        = errors.New("challenge: can't commit to answer")
)

func NewError(verb, publicReason string, privateReason error) *Error {
	return &Error{
		Verb:          verb,
		PublicReason:  publicReason,
		PrivateReason: privateReason,
	}
}

type Error struct {
	PrivateReason error
	Verb          string
	PublicReason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("challenge: error when processing challenge: %s: %v", e.Verb, e.PrivateReason)
}

func (e *Error) Unwrap() error {
	return e.PrivateReason
}
