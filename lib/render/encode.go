package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/TecharoHQ/sphinx"
	"github.com/disintegration/imaging"
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// EncodePNG serialises img as a PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, fmt.Errorf("render: can't encode png: %w", err)
	}

	return bytes.Clone(buf.Bytes()), nil
}

// DataURI wraps PNG bytes as a data: URI.
func DataURI(pngData []byte) string {
	return sphinx.DataURIPrefix + base64.StdEncoding.EncodeToString(pngData)
}
