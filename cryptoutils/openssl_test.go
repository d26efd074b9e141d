package cryptoutils

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

// Produced by: echo -n 20240315 | openssl enc -aes-256-cbc -md md5 -S 0102030405060708 -k k1
// with the Salted__ header prepended, which is what CryptoJS emits.
const opensslVector = "U2FsdGVkX18BAgMEBQYHCPCIl5QJzf+/ACVEvgodwwU="

func TestDecryptSaltedOpenSSLVector(t *testing.T) {
	pt, err := DecryptSalted([]byte("k1"), opensslVector)
	require.NoError(t, err)
	require.Equal(t, "20240315", string(pt))
}

func TestEncryptSaltedDeterministicSalt(t *testing.T) {
	salt := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	out, err := EncryptSalted([]byte("k1"), []byte("20240315"), salt)
	require.NoError(t, err)
	require.Equal(t, opensslVector, out)
}

func TestEncryptSaltedRoundTrip(t *testing.T) {
	out, err := EncryptSalted([]byte("your-super-secret-key-here-change-me"), []byte("20991231"), nil)
	require.NoError(t, err)

	pt, err := DecryptSalted([]byte("your-super-secret-key-here-change-me"), out)
	require.NoError(t, err)
	require.Equal(t, "20991231", string(pt))
}

func TestDecryptSaltedErrors(t *testing.T) {
	_, err := DecryptSalted([]byte("k1"), "%%%not-base64")
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = DecryptSalted([]byte("k1"), base64.StdEncoding.EncodeToString([]byte("NotSalted_12345678")))
	require.ErrorIs(t, err, ErrNotSalted)

	_, err = DecryptSalted([]byte("k1"), base64.StdEncoding.EncodeToString([]byte("Salted__")))
	require.ErrorIs(t, err, ErrNotSalted)
}
