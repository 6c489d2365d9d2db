package internal

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SHA256sum computes a cryptographic hash.
func SHA256sum(text string) string {
	hash := sha256.New()
	hash.Write([]byte(text))
	return hex.EncodeToString(hash.Sum(nil))
}

// MD5sum computes the hex MD5 digest used to derive store keys from session
// identifiers. It is a key derivation, not a security boundary: the store
// value is a bcrypt commitment either way.
func MD5sum(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// FastHash is a high-performance non-cryptographic hash function suitable for
// log fingerprints, cache keys and other places where cryptographic security
// is not required.
func FastHash(text string) string {
	h := xxhash.Sum64String(text)
	return strconv.FormatUint(h, 16)
}
