package cryptoutils

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPKCS7PadUnpad(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		padLen int
	}{
		{name: "Empty", data: []byte{}, padLen: 16},
		{name: "Short", data: []byte("20240315"), padLen: 8},
		{name: "Block aligned", data: bytes.Repeat([]byte{'a'}, 16), padLen: 16},
		{name: "Phrase", data: []byte("BNB_SECURE_ACCESS"), padLen: 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			padded := PKCS7Pad(tc.data, 16)
			require.Len(t, padded, len(tc.data)+tc.padLen)
			require.Zero(t, len(padded)%16)

			unpadded, err := PKCS7Unpad(padded, 16)
			require.NoError(t, err)
			require.Equal(t, tc.data, unpadded)
		})
	}
}

func TestPKCS7UnpadRejectsBadPadding(t *testing.T) {
	block := bytes.Repeat([]byte{'a'}, 16)

	zero := bytes.Clone(block)
	zero[15] = 0
	_, err := PKCS7Unpad(zero, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)

	tooLong := bytes.Clone(block)
	tooLong[15] = 17
	_, err = PKCS7Unpad(tooLong, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)

	inconsistent := bytes.Clone(block)
	inconsistent[15] = 3
	inconsistent[14] = 3
	inconsistent[13] = 2
	_, err = PKCS7Unpad(inconsistent, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)

	_, err = PKCS7Unpad([]byte{1, 2, 3}, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)
}

func TestEncryptDecryptCBC(t *testing.T) {
	key := make([]byte, KeySize)
	iv := make([]byte, 16)
	_, err := rand.Read(key)
	require.NoError(t, err)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	ct, err := EncryptCBC(key, iv, []byte("BNB_SECURE_ACCESS"))
	require.NoError(t, err)
	require.Len(t, ct, 32)

	pt, err := DecryptCBC(key, iv, ct)
	require.NoError(t, err)
	require.Equal(t, "BNB_SECURE_ACCESS", string(pt))
}

func TestDecryptCBCInvalidInput(t *testing.T) {
	key := make([]byte, KeySize)
	iv := make([]byte, 16)

	_, err := DecryptCBC(key, iv, nil)
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = DecryptCBC(key, iv, make([]byte, 15))
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = DecryptCBC(key, iv[:8], make([]byte, 16))
	require.Error(t, err)

	_, err = DecryptCBC(key[:5], iv, make([]byte, 16))
	require.Error(t, err)
}
