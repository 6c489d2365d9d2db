package internal

import "testing"

var sessionInputs = []string{
	"0196a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b",
	"0196a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5c",
	"login-form",
	"a much longer opaque session token supplied by some host application",
}

func BenchmarkMD5_SessionInputs(b *testing.B) {
	for i := 0; b.Loop(); i++ {
		_ = MD5sum(sessionInputs[i%len(sessionInputs)])
	}
}

func BenchmarkSHA256_SessionInputs(b *testing.B) {
	for i := 0; b.Loop(); i++ {
		_ = SHA256sum(sessionInputs[i%len(sessionInputs)])
	}
}

func BenchmarkXXHash_SessionInputs(b *testing.B) {
	for i := 0; b.Loop(); i++ {
		_ = FastHash(sessionInputs[i%len(sessionInputs)])
	}
}
