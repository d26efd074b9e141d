package securedate

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	// SchemePhrase names the multi-candidate date-as-key scheme.
	SchemePhrase = "phrase"

	// SchemeDateDistance names the single-decrypt secret-as-key scheme.
	SchemeDateDistance = "date-distance"

	// DefaultVerificationPhrase is the payload encrypted by SchemePhrase clients.
	DefaultVerificationPhrase = "BNB_SECURE_ACCESS"

	// DefaultSkewDays accepts yesterday, today and tomorrow.
	DefaultSkewDays = 1

	// SameDayOnly is the SkewDays value that accepts today's date only.
	SameDayOnly = -1

	// MaxSkewDays bounds the replay window an operator can configure.
	MaxSkewDays = 7

	// MaxCredentialLength bounds the credentials a verifier will look at.
	// Legitimate credentials are well under 100 bytes.
	MaxCredentialLength = 512
)

// KeyDerivation selects how SchemePhrase turns a date into an AES key.
type KeyDerivation string

const (
	// KeySecretBound derives the key with HKDF-SHA256 from the shared secret,
	// salted with the padded date and bound to the phrase.
	KeySecretBound KeyDerivation = "secret-bound"

	// KeyDatePadded uses the date right-padded with spaces to 32 bytes as the
	// key. It does not depend on the shared secret and exists only for
	// compatibility with clients that predate KeySecretBound.
	KeyDatePadded KeyDerivation = "date-padded"
)

// Scheme encodes and verifies date-bound credentials.
type Scheme interface {
	// Name returns the scheme identifier, SchemePhrase or SchemeDateDistance.
	Name() string

	// Encode produces a credential for the calendar date of now.
	Encode(now time.Time) (string, error)

	// Verify returns nil when credential is acceptable at now. Every failure
	// wraps ErrInvalidCredential.
	Verify(credential string, now time.Time) error
}

// Options configures a Scheme.
type Options struct {
	// Secret is the shared secret. Required.
	Secret []byte

	// Phrase is the SchemePhrase payload. Defaults to DefaultVerificationPhrase.
	Phrase string

	// SkewDays is the accepted distance in whole days. Zero means
	// DefaultSkewDays; use SameDayOnly for a window of today alone.
	SkewDays int

	// Location is the time zone dates are computed in. Defaults to time.Local.
	Location *time.Location

	// KeyDerivation applies to SchemePhrase only. Defaults to KeySecretBound.
	KeyDerivation KeyDerivation

	// Rand is the source for IVs and salts. Defaults to crypto/rand.
	Rand io.Reader
}

func (o Options) withDefaults() Options {
	if o.Phrase == "" {
		o.Phrase = DefaultVerificationPhrase
	}
	switch o.SkewDays {
	case 0:
		o.SkewDays = DefaultSkewDays
	case SameDayOnly:
		o.SkewDays = 0
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.KeyDerivation == "" {
		o.KeyDerivation = KeySecretBound
	}
	if o.Rand == nil {
		o.Rand = rand.Reader
	}
	return o
}

// Validate reports configuration errors. It is called by the scheme constructors.
func (o Options) Validate() error {
	if len(o.Secret) == 0 {
		return errors.New("shared secret is required")
	}
	if (o.SkewDays < 0 && o.SkewDays != SameDayOnly) || o.SkewDays > MaxSkewDays {
		return fmt.Errorf("skew days must be between 1 and %d, 0 for the default or %d for same day only, got %d", MaxSkewDays, SameDayOnly, o.SkewDays)
	}
	switch o.KeyDerivation {
	case "", KeySecretBound, KeyDatePadded:
	default:
		return fmt.Errorf("unknown key derivation %q", o.KeyDerivation)
	}
	return nil
}

// NewScheme constructs the scheme called name.
func NewScheme(name string, opts Options) (Scheme, error) {
	switch name {
	case SchemePhrase, "":
		s, err := NewPhraseScheme(opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case SchemeDateDistance:
		s, err := NewDateDistanceScheme(opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown scheme %q", name)
	}
}

// Encode produces a default SchemePhrase credential for now in the local zone.
func Encode(secret []byte, now time.Time) (string, error) {
	s, err := NewPhraseScheme(Options{Secret: secret})
	if err != nil {
		return "", err
	}
	return s.Encode(now)
}

// Verify checks a default SchemePhrase credential with a one day window.
// It never panics; every failure, including configuration errors, is false.
func Verify(secret []byte, credential string, now time.Time) bool {
	s, err := NewPhraseScheme(Options{Secret: secret})
	if err != nil {
		return false
	}
	return s.Verify(credential, now) == nil
}
