// Package assets enumerates and loads the font and background files a
// render draws from.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	mrand "math/rand/v2"
	"os"
	"sort"
	"strings"
)

var (
	ErrNoAssets    = errors.New("assets: no matching assets")
	ErrInvalidName = errors.New("assets: invalid asset name")
)

const (
	ExtFont       = ".ttf"
	ExtBackground = ".jpg"
)

// Source is a flat collection of named files.
type Source interface {
	// List returns the names of non-hidden files ending in ext, sorted.
	List(ext string) ([]string, error)

	// Open returns the contents of the named file.
	Open(name string) ([]byte, error)
}

// Pick chooses one of the files in src ending in ext uniformly at random.
func Pick(rng *mrand.Rand, src Source, ext string) (string, error) {
	names, err := src.List(ext)
	if err != nil {
		return "", err
	}

	if len(names) == 0 {
		return "", fmt.Errorf("%w: no %s files", ErrNoAssets, ext)
	}

	return names[rng.IntN(len(names))], nil
}

func matches(name, ext string) bool {
	return !strings.HasPrefix(name, ".") && strings.HasSuffix(name, ext)
}

type fsSource struct {
	fsys fs.FS
}

// FS serves the top level of fsys.
func FS(fsys fs.FS) Source {
	return fsSource{fsys: fsys}
}

// Dir serves the top level of a directory on disk.
func Dir(path string) Source {
	return FS(os.DirFS(path))
}

func (s fsSource) List(ext string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("assets: can't list files: %w", err)
	}

	var result []string
	for _, ent := range entries {
		if ent.IsDir() || !matches(ent.Name(), ext) {
			continue
		}

		result = append(result, ent.Name())
	}

	sort.Strings(result)

	return result, nil
}

func (s fsSource) Open(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("assets: can't read %s: %w", name, err)
	}

	return data, nil
}
