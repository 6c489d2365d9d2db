package challenge

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	err := NewError("generate", "bad configuration", ErrEmptyAlphabet)

	if !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("error does not wrap its private reason: %v", err)
	}

	var cerr *Error
	if !errors.As(error(err), &cerr) || cerr.PublicReason != "bad configuration" {
		t.Errorf("errors.As lost the public reason: %v", err)
	}
}
