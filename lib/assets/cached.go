package assets

import (
	"time"

	"github.com/TecharoHQ/sphinx/decaymap"
)

type cached struct {
	src   Source
	ttl   time.Duration
	lists *decaymap.Impl[string, []string]
	files *decaymap.Impl[string, []byte]
}

// Cached remembers listings and file contents of src for ttl. A ttl of zero
// or less returns src unchanged.
func Cached(src Source, ttl time.Duration) Source {
	if ttl <= 0 {
		return src
	}

	return &cached{
		src:   src,
		ttl:   ttl,
		lists: decaymap.New[string, []string](),
		files: decaymap.New[string, []byte](),
	}
}

func (c *cached) List(ext string) ([]string, error) {
	if names, ok := c.lists.Get(ext); ok {
		return names, nil
	}

	names, err := c.src.List(ext)
	if err != nil {
		return nil, err
	}

	c.lists.Set(ext, names, c.ttl)

	return names, nil
}

func (c *cached) Open(name string) ([]byte, error) {
	if data, ok := c.files.Get(name); ok {
		return data, nil
	}

	data, err := c.src.Open(name)
	if err != nil {
		return nil, err
	}

	c.files.Set(name, data, c.ttl)

	return data, nil
}
