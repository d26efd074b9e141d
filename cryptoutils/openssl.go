package cryptoutils

import (
	"bytes"
	"crypto/aes"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var saltedPrefix = []byte("Salted__")

const saltSize = 8

var (
	// ErrNotSalted is returned when a passphrase ciphertext lacks the OpenSSL header.
	ErrNotSalted = errors.New("missing Salted__ header")

	// ErrInvalidEncoding is returned when the outer base64 layer does not decode.
	ErrInvalidEncoding = errors.New("invalid base64 encoding")
)

// evpBytesToKey implements OpenSSL's EVP_BytesToKey with MD5 and a single
// iteration, producing an AES-256 key and CBC iv.
func evpBytesToKey(passphrase, salt []byte) (key, iv []byte) {
	var (
		material []byte
		prev     []byte
	)
	for len(material) < KeySize+aes.BlockSize {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		material = append(material, prev...)
	}
	return material[:KeySize], material[KeySize : KeySize+aes.BlockSize]
}

// EncryptSalted encrypts plaintext with a passphrase in the OpenSSL salted
// format, base64 encoded. This is the output of CryptoJS.AES.encrypt(text, passphrase).
func EncryptSalted(passphrase, plaintext []byte, rnd io.Reader) (string, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rnd, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, iv := evpBytesToKey(passphrase, salt)
	ciphertext, err := EncryptCBC(key, iv, plaintext)
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, len(saltedPrefix)+saltSize+len(ciphertext))
	out = append(out, saltedPrefix...)
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptSalted reverses EncryptSalted.
func DecryptSalted(passphrase []byte, encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(raw) < len(saltedPrefix)+saltSize || !bytes.Equal(raw[:len(saltedPrefix)], saltedPrefix) {
		return nil, ErrNotSalted
	}

	salt := raw[len(saltedPrefix) : len(saltedPrefix)+saltSize]
	key, iv := evpBytesToKey(passphrase, salt)
	return DecryptCBC(key, iv, raw[len(saltedPrefix)+saltSize:])
}
