package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TecharoHQ/sphinx/lib/challenge/challengetest"
	"github.com/TecharoHQ/sphinx/lib/config"
)

func TestDefaultConfigMustParse(t *testing.T) {
	f, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("can't parse builtin config: %v", err)
	}

	if f.Captcha != config.Default() {
		t.Errorf("builtin config drifted from the defaults: %+v", f.Captcha)
	}

	if f.Store.Backend != "memory" {
		t.Errorf("builtin store: want memory, got %q", f.Store.Backend)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing config file loaded")
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "sphinx.yaml")

	body := "captcha:\n  length: 5\nstore:\n  backend: bbolt\n  parameters:\n    path: " + filepath.Join(dir, "sphinx.bdb") + "\n"
	if err := os.WriteFile(fname, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadConfigOrDefault(fname)
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewFromFile(t.Context(), f, nil)
	if err != nil {
		t.Fatal(err)
	}

	id := challengetest.SessionID(t)
	iss, err := s.Issue(t.Context(), id, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len([]rune(iss.Plaintext)) != 5 {
		t.Errorf("file config not applied: %q", iss.Plaintext)
	}

	if !s.Check(t.Context(), id, iss.Plaintext) {
		t.Error("correct answer rejected by bbolt backed instance")
	}
}
