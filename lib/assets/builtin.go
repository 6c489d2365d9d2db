package assets

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

var builtinFonts = map[string][]byte{
	"gobold.ttf":       gobold.TTF,
	"gobolditalic.ttf": gobolditalic.TTF,
	"goitalic.ttf":     goitalic.TTF,
	"gomedium.ttf":     gomedium.TTF,
	"gomono.ttf":       gomono.TTF,
	"gomonobold.ttf":   gomonobold.TTF,
	"goregular.ttf":    goregular.TTF,
	"gosmallcaps.ttf":  gosmallcaps.TTF,
}

type builtin struct{}

// Builtin serves the Go font family compiled into the binary.
func Builtin() Source {
	return builtin{}
}

func (builtin) List(ext string) ([]string, error) {
	var result []string
	for _, name := range slices.Sorted(maps.Keys(builtinFonts)) {
		if matches(name, ext) {
			result = append(result, name)
		}
	}

	return result, nil
}

func (builtin) Open(name string) ([]byte, error) {
	data, ok := builtinFonts[name]
	if !ok {
		return nil, fmt.Errorf("assets: can't read %s: %w", name, fs.ErrNotExist)
	}

	return data, nil
}
