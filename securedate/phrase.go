package securedate

import (
	"crypto/aes"
	"crypto/subtle"
	"fmt"
	"io"
	"time"

	"github.com/ruteri/secure-date-gateway/cryptoutils"
)

// PhraseScheme encrypts a fixed phrase under a key derived from the date.
type PhraseScheme struct {
	opts Options
}

// NewPhraseScheme validates opts and returns a SchemePhrase implementation.
func NewPhraseScheme(opts Options) (*PhraseScheme, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &PhraseScheme{opts: opts.withDefaults()}, nil
}

// Name implements Scheme.
func (s *PhraseScheme) Name() string {
	return SchemePhrase
}

// KeyFor returns the AES key for a date.
func (s *PhraseScheme) KeyFor(date DateToken) ([]byte, error) {
	padded := cryptoutils.PadKey(date.String(), cryptoutils.KeySize)
	if s.opts.KeyDerivation == KeyDatePadded {
		return padded, nil
	}
	return cryptoutils.DeriveKey(s.opts.Secret, padded, []byte(s.opts.Phrase), cryptoutils.KeySize)
}

// Encode implements Scheme. A fresh iv is drawn on every call.
func (s *PhraseScheme) Encode(now time.Time) (string, error) {
	key, err := s.KeyFor(NewDateToken(now, s.opts.Location))
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(s.opts.Rand, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext, err := cryptoutils.EncryptCBC(key, iv, []byte(s.opts.Phrase))
	if err != nil {
		return "", err
	}
	return FormatComposite(iv, ciphertext), nil
}

// Verify implements Scheme. Candidates are tried in CandidateWindow order and
// the first match wins. A candidate that fails to decrypt does not stop the
// search.
func (s *PhraseScheme) Verify(credential string, now time.Time) error {
	iv, ciphertext, err := ParseComposite(credential)
	if err != nil {
		return err
	}

	decrypted := false
	for _, date := range CandidateWindow(now, s.opts.Location, s.opts.SkewDays) {
		key, err := s.KeyFor(date)
		if err != nil {
			continue
		}
		plaintext, err := cryptoutils.DecryptCBC(key, iv, ciphertext)
		if err != nil {
			continue
		}
		decrypted = true
		if subtle.ConstantTimeCompare(plaintext, []byte(s.opts.Phrase)) == 1 {
			return nil
		}
	}

	if decrypted {
		return ErrPhraseMismatch
	}
	return ErrDecryptionFailure
}
