// Package cryptoutils provides the symmetric primitives behind date-bound
// credentials.
//
//   - AES-CBC with strict PKCS#7 padding (EncryptCBC, DecryptCBC)
//   - Fixed-width key padding and HKDF-SHA256 key derivation (PadKey, DeriveKey)
//   - The OpenSSL "Salted__" passphrase format with EVP_BytesToKey(MD5), as
//     produced by `openssl enc -aes-256-cbc -md md5` and CryptoJS
//     (EncryptSalted, DecryptSalted)
//
// Nothing here authenticates ciphertexts. Callers decide acceptance by
// comparing the decrypted plaintext.
package cryptoutils
