package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"k8s.io/apimachinery/pkg/util/yaml"
)

var (
	ErrCacheTTLDoesNotParse = errors.New("config.Assets: cacheTTL does not parse as a Duration, see https://pkg.go.dev/time#ParseDuration (formatted like 5m -> 5 minutes, 2h -> 2 hours, etc)")
	ErrNegativeCacheTTL     = errors.New("config.Assets: cacheTTL must not be negative")
)

// DefaultAssetCacheTTL is how long directory listings of fonts and
// backgrounds are reused for.
const DefaultAssetCacheTTL = time.Minute

type assetsFileConfig struct {
	FontDir       string `json:"fontDir,omitempty"`
	BackgroundDir string `json:"backgroundDir,omitempty"`
	CacheTTL      string `json:"cacheTTL,omitempty"`
}

// Assets says where fonts and background images come from. An empty
// FontDir selects the fonts compiled into the binary.
type Assets struct {
	FontDir       string        `json:"fontDir,omitempty"`
	BackgroundDir string        `json:"backgroundDir,omitempty"`
	CacheTTL      time.Duration `json:"cacheTTL,omitempty"`
}

// MarshalJSON writes CacheTTL as a duration string so the output loads back.
func (a Assets) MarshalJSON() ([]byte, error) {
	return json.Marshal(assetsFileConfig{
		FontDir:       a.FontDir,
		BackgroundDir: a.BackgroundDir,
		CacheTTL:      a.CacheTTL.String(),
	})
}

func (a *assetsFileConfig) Valid() error {
	if a.CacheTTL == "" {
		return nil
	}

	ttl, err := time.ParseDuration(a.CacheTTL)
	if err != nil {
		return fmt.Errorf("%w: ParseDuration(%q) returned: %w", ErrCacheTTLDoesNotParse, a.CacheTTL, err)
	}

	if ttl < 0 {
		return fmt.Errorf("%w: got %s", ErrNegativeCacheTTL, ttl)
	}

	return nil
}

type fileConfig struct {
	Captcha Config           `json:"captcha"`
	Store   *Store           `json:"store,omitempty"`
	Assets  assetsFileConfig `json:"assets"`
}

func (c *fileConfig) Valid() error {
	var errs []error

	if err := c.Captcha.Valid(); err != nil {
		errs = append(errs, err)
	}

	if c.Store != nil {
		if err := c.Store.Valid(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Assets.Valid(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) != 0 {
		return fmt.Errorf("config is not valid:\n%w", errors.Join(errs...))
	}

	return nil
}

// File is a fully loaded configuration file.
type File struct {
	Captcha Config `json:"captcha"`
	Store   *Store `json:"store"`
	Assets  Assets `json:"assets"`
}

// DefaultFile is what Load produces for an empty document.
func DefaultFile() *File {
	return &File{
		Captcha: Default(),
		Store:   DefaultStore(),
		Assets: Assets{
			CacheTTL: DefaultAssetCacheTTL,
		},
	}
}

// Load parses a YAML or JSON document. Options missing from the captcha
// section keep their defaults.
func Load(fin io.Reader, fname string) (*File, error) {
	c := &fileConfig{
		Captcha: Default(),
	}

	if err := yaml.NewYAMLToJSONDecoder(fin).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("can't parse sphinx config YAML %s: %w", fname, err)
	}

	if err := c.Valid(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	result := DefaultFile()
	result.Captcha = c.Captcha
	result.Assets.FontDir = c.Assets.FontDir
	result.Assets.BackgroundDir = c.Assets.BackgroundDir

	if c.Store != nil {
		result.Store = c.Store
	}

	if c.Assets.CacheTTL != "" {
		// already validated
		result.Assets.CacheTTL, _ = time.ParseDuration(c.Assets.CacheTTL)
	}

	return result, nil
}
