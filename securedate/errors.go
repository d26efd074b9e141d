package securedate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential is the parent of every verification failure.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrMalformedCredential means the credential could not be parsed.
	ErrMalformedCredential = fmt.Errorf("%w: malformed", ErrInvalidCredential)

	// ErrDecryptionFailure means no candidate key produced a valid plaintext.
	ErrDecryptionFailure = fmt.Errorf("%w: decryption failed", ErrInvalidCredential)

	// ErrPhraseMismatch means decryption succeeded but the payload was not the phrase.
	ErrPhraseMismatch = fmt.Errorf("%w: phrase mismatch", ErrInvalidCredential)

	// ErrDateMismatch means the decrypted date is outside the accepted window.
	ErrDateMismatch = fmt.Errorf("%w: date outside window", ErrInvalidCredential)
)

// Kind maps a verification error to a short label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedCredential):
		return "malformed"
	case errors.Is(err, ErrDecryptionFailure):
		return "decrypt"
	case errors.Is(err, ErrPhraseMismatch):
		return "phrase_mismatch"
	case errors.Is(err, ErrDateMismatch):
		return "date_mismatch"
	default:
		return "error"
	}
}
