package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// KeyStoreLocation represents a URI for a disclosed-key source.
type KeyStoreLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewKeyStoreLocation creates a new key store location from a URI string with validation.
func NewKeyStoreLocation(uri string) (KeyStoreLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return KeyStoreLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "env", "file", "s3", "vault":
	default:
		return KeyStoreLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return KeyStoreLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc KeyStoreLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc KeyStoreLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc KeyStoreLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}

var (
	// ErrKeysNotFound is returned when a source holds no disclosed keys.
	ErrKeysNotFound = errors.New("keys not found")

	// ErrBackendUnavailable is returned when a key source is not accessible.
	ErrBackendUnavailable = errors.New("key store backend unavailable")

	// ErrInvalidLocationURI is returned when a key store URI is malformed or unsupported.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid key store location URI")
)

// KeyStore provides the named secret values disclosed to admitted callers.
type KeyStore interface {
	// Load returns every key held by the source.
	Load(ctx context.Context) (map[string]string, error)

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend. Credentials are masked.
	LocationURI() string
}

// KeyStoreFactory creates key stores.
type KeyStoreFactory interface {
	// KeyStoreFor creates a backend from a URI.
	// Supports env://, file://, s3://, vault://
	KeyStoreFor(location KeyStoreLocation) (KeyStore, error)

	// CreateMultiKeyStore creates an aggregated key store.
	CreateMultiKeyStore(locations []KeyStoreLocation) (KeyStore, error)
}
