package securedate

import (
	"errors"
	"fmt"
	"time"

	"github.com/ruteri/secure-date-gateway/cryptoutils"
)

// DateDistanceScheme encrypts the date itself with the shared secret as an
// OpenSSL passphrase, the format produced by CryptoJS.AES.encrypt(date, secret).
type DateDistanceScheme struct {
	opts Options
}

// NewDateDistanceScheme validates opts and returns a SchemeDateDistance implementation.
func NewDateDistanceScheme(opts Options) (*DateDistanceScheme, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &DateDistanceScheme{opts: opts.withDefaults()}, nil
}

// Name implements Scheme.
func (s *DateDistanceScheme) Name() string {
	return SchemeDateDistance
}

// Encode implements Scheme.
func (s *DateDistanceScheme) Encode(now time.Time) (string, error) {
	date := NewDateToken(now, s.opts.Location)
	return cryptoutils.EncryptSalted(s.opts.Secret, []byte(date), s.opts.Rand)
}

// Verify implements Scheme. The credential is decrypted exactly once and the
// tolerance is applied to the distance between the decrypted date and now.
func (s *DateDistanceScheme) Verify(credential string, now time.Time) error {
	if len(credential) > MaxCredentialLength {
		return fmt.Errorf("%w: credential too long", ErrMalformedCredential)
	}

	plaintext, err := cryptoutils.DecryptSalted(s.opts.Secret, credential)
	if err != nil {
		if errors.Is(err, cryptoutils.ErrInvalidEncoding) || errors.Is(err, cryptoutils.ErrNotSalted) {
			return fmt.Errorf("%w: %v", ErrMalformedCredential, err)
		}
		return fmt.Errorf("%w: %v", ErrDecryptionFailure, err)
	}

	// A wrong passphrase occasionally yields valid padding over garbage.
	date, err := ParseDateToken(string(plaintext), s.opts.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecryptionFailure, err)
	}

	days := DaysBetween(date, now.In(s.opts.Location))
	if days < 0 {
		days = -days
	}
	if days > s.opts.SkewDays {
		return fmt.Errorf("%w: %d days", ErrDateMismatch, days)
	}
	return nil
}
