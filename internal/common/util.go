package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

var randReader io.Reader = rand.Reader

// RandomToken returns size random bytes encoded as unpadded URL-safe base64,
// suitable for opaque bearer tokens.
func RandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray zeroes b. Used for codes and passwords once sent.
func WipeByteArray(b []byte) {
	clear(b)
}
