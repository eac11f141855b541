package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// Token generates URL safe random tokens of a fixed byte length.
type Token struct {
	size int
}

// NewToken returns a generator of size random bytes, hex encoded. Sizes
// below 16 are raised to 16.
func NewToken(size int) *Token {
	return &Token{size: max(size, 16)}
}

func (t *Token) Generate() string {
	b := make([]byte, t.size)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
