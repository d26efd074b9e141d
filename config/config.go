// Package config loads the gateway's secrets and domain settings from the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/ruteri/secure-date-gateway/mailer"
	"github.com/ruteri/secure-date-gateway/securedate"
	"github.com/ruteri/secure-date-gateway/storage"
)

// Config is assembled once at startup and passed by reference.
type Config struct {
	SharedSecret string `envconfig:"SHARED_SECRET" required:"true"`
	// AdminSecret keys the admin gate. Falls back to SharedSecret.
	AdminSecret string `envconfig:"ADMIN_SECRET"`

	Scheme             string `envconfig:"SECURE_SCHEME" default:"phrase"`
	KeyDerivation      string `envconfig:"KEY_DERIVATION" default:"secret-bound"`
	VerificationPhrase string `envconfig:"VERIFICATION_PHRASE" default:"BNB_SECURE_ACCESS"`
	SkewDays           int    `envconfig:"SKEW_DAYS" default:"1"`
	TimeZone           string `envconfig:"TZ_NAME" default:"Local"`
	SecureHeader       string `envconfig:"SECURE_HEADER" default:"x-secure-date"`

	KeySources         string   `envconfig:"KEY_SOURCES" default:"env://API_KEY_"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	SMTPHost      string `envconfig:"SMTP_HOST"`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME"`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom      string `envconfig:"SMTP_FROM"`
	SMTPTLSPolicy string `envconfig:"SMTP_TLS_POLICY" default:"mandatory"`
	MailDryRun    bool   `envconfig:"MAIL_DRY_RUN"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting that can be checked without network access.
func (c *Config) Validate() error {
	var errs []error

	if c.SharedSecret == "" {
		errs = append(errs, errors.New("SHARED_SECRET is required"))
	}
	if c.SkewDays < 1 || c.SkewDays > securedate.MaxSkewDays {
		errs = append(errs, fmt.Errorf("SKEW_DAYS must be between 1 and %d", securedate.MaxSkewDays))
	}
	switch c.Scheme {
	case securedate.SchemePhrase, securedate.SchemeDateDistance:
	default:
		errs = append(errs, fmt.Errorf("unknown SECURE_SCHEME %q", c.Scheme))
	}
	switch securedate.KeyDerivation(c.KeyDerivation) {
	case securedate.KeySecretBound, securedate.KeyDatePadded:
	default:
		errs = append(errs, fmt.Errorf("unknown KEY_DERIVATION %q", c.KeyDerivation))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := storage.ParseLocations(c.KeySources); err != nil {
		errs = append(errs, fmt.Errorf("KEY_SOURCES: %w", err))
	}
	if c.SMTPHost != "" && !c.MailDryRun {
		smtp := c.SMTPConfig()
		if err := smtp.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", interfaces.ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "Local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TZ_NAME: %w", err)
	}
	return loc, nil
}

// SchemeOptions returns the options for the API gate scheme.
func (c *Config) SchemeOptions() (securedate.Options, error) {
	return c.schemeOptions(c.SharedSecret)
}

// AdminSchemeOptions returns the options for the admin gate scheme. The admin
// key is always derived from the admin secret, whatever KEY_DERIVATION says.
func (c *Config) AdminSchemeOptions() (securedate.Options, error) {
	secret := c.AdminSecret
	if secret == "" {
		secret = c.SharedSecret
	}
	opts, err := c.schemeOptions(secret)
	if err != nil {
		return opts, err
	}
	opts.KeyDerivation = securedate.KeySecretBound
	return opts, nil
}

// AdminSecretShared reports whether the admin gate falls back to the shared secret.
func (c *Config) AdminSecretShared() bool {
	return c.AdminSecret == "" || c.AdminSecret == c.SharedSecret
}

func (c *Config) schemeOptions(secret string) (securedate.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return securedate.Options{}, err
	}
	opts := securedate.Options{
		Secret:        []byte(secret),
		Phrase:        c.VerificationPhrase,
		SkewDays:      c.SkewDays,
		Location:      loc,
		KeyDerivation: securedate.KeyDerivation(c.KeyDerivation),
	}
	return opts, opts.Validate()
}

// SMTPConfig returns the mail transport settings.
func (c *Config) SMTPConfig() mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:      c.SMTPHost,
		Port:      c.SMTPPort,
		Username:  c.SMTPUsername,
		Password:  c.SMTPPassword,
		From:      c.SMTPFrom,
		TLSPolicy: c.SMTPTLSPolicy,
	}
}
