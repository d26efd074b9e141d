package securedate

import (
	"crypto/aes"
	"encoding/base64"
	"fmt"
	"strings"
)

// CompositeSeparator splits the iv from the ciphertext. Standard base64
// never produces it, so the first occurrence is the only valid split point.
const CompositeSeparator = ":"

// FormatComposite renders base64(iv) ":" base64(ciphertext).
func FormatComposite(iv, ciphertext []byte) string {
	return base64.StdEncoding.EncodeToString(iv) + CompositeSeparator + base64.StdEncoding.EncodeToString(ciphertext)
}

// ParseComposite splits and decodes a composite credential. Any deviation
// from the expected shape is reported as ErrMalformedCredential.
func ParseComposite(credential string) (iv, ciphertext []byte, err error) {
	if len(credential) > MaxCredentialLength {
		return nil, nil, fmt.Errorf("%w: credential too long", ErrMalformedCredential)
	}

	ivPart, ctPart, ok := strings.Cut(credential, CompositeSeparator)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing separator", ErrMalformedCredential)
	}
	if strings.Contains(ctPart, CompositeSeparator) {
		return nil, nil, fmt.Errorf("%w: unexpected separator in ciphertext", ErrMalformedCredential)
	}

	iv, err = base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: iv: %v", ErrMalformedCredential, err)
	}
	if len(iv) != aes.BlockSize {
		return nil, nil, fmt.Errorf("%w: iv must be %d bytes", ErrMalformedCredential, aes.BlockSize)
	}

	ciphertext, err = base64.StdEncoding.DecodeString(ctPart)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ciphertext: %v", ErrMalformedCredential, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, nil, fmt.Errorf("%w: ciphertext length", ErrMalformedCredential)
	}

	return iv, ciphertext, nil
}
