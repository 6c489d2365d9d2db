// Package sphinx issues image challenges and verifies the answers people give back.
package sphinx

import "time"

// Version is the current version of Sphinx.
//
// This variable is set at build time using the -X linker flag. If not set,
// it defaults to "devel".
var Version = "devel"

const (
	// KeyPrefix is prepended to the digest of a session identifier to form the
	// store key holding that session's commitment.
	KeyPrefix = "CAPTCHA_"

	// StoreTTL is how long a commitment stays in the store. It is applied to
	// every write regardless of the configured expire value.
	StoreTTL = 600 * time.Second

	// DefaultExpire is the default value of the expire option, in seconds.
	DefaultExpire = 1800

	// DefaultFontSize is the default glyph size in pixels.
	DefaultFontSize = 25

	// DefaultLength is the default number of characters in a code.
	DefaultLength = 4

	// DataURIPrefix is the header put in front of the base64 encoded PNG.
	DataURIPrefix = "data:image/png;base64,"
)
