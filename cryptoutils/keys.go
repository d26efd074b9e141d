package cryptoutils

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length used throughout the gateway.
const KeySize = 32

// PadKey right-pads s with spaces, or truncates it, to exactly n bytes.
func PadKey(s string, n int) []byte {
	if len(s) >= n {
		return []byte(s[:n])
	}
	return []byte(s + strings.Repeat(" ", n-len(s)))
}

// DeriveKey expands secret into an n byte key with HKDF-SHA256.
// Salt and info can be nil.
func DeriveKey(secret, salt, info []byte, n int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty secret")
	}
	key := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
