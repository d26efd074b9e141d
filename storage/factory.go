package storage

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ruteri/secure-date-gateway/interfaces"
)

// KeyStoreFactory creates key store backends from location URIs.
type KeyStoreFactory struct {
	log *slog.Logger
}

// NewKeyStoreFactory creates a new factory instance.
func NewKeyStoreFactory(logger *slog.Logger) *KeyStoreFactory {
	return &KeyStoreFactory{log: logger}
}

// KeyStoreFor creates a key store from a location.
//
// Supported schemes:
//   - env://PREFIX_ - environment variables sharing a prefix
//   - file:///path/keys.json - JSON object on disk
//   - s3://[ACCESS_KEY:SECRET_KEY@]bucket/keys.json?region=us-east-1&endpoint=...
//   - vault://host:8200/mount/path?tls=true&token-env=VAULT_TOKEN
func (sf *KeyStoreFactory) KeyStoreFor(location interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	switch strings.ToLower(location.Scheme) {
	case "env":
		return sf.createEnvBackend(location)
	case "file":
		return sf.createFileBackend(location)
	case "s3":
		return sf.createS3Backend(location)
	case "vault":
		return sf.createVaultBackend(location)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %s", interfaces.ErrInvalidLocationURI, location.Scheme)
	}
}

// CreateMultiKeyStore creates a merged key store from a list of locations.
// Locations that cannot be turned into a backend are skipped with a warning.
func (sf *KeyStoreFactory) CreateMultiKeyStore(locations []interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	backends := make([]interfaces.KeyStore, 0, len(locations))

	for _, location := range locations {
		backend, err := sf.KeyStoreFor(location)
		if err != nil {
			sf.log.Warn("Failed to create key store backend",
				"err", err,
				slog.String("locationURI", location.String()))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no valid key store backends created")
	}

	return NewMultiKeyStore(backends, sf.log), nil
}

// ParseLocations splits a comma separated URI list into locations.
func ParseLocations(uris string) ([]interfaces.KeyStoreLocation, error) {
	var locations []interfaces.KeyStoreLocation
	for _, uri := range strings.Split(uris, ",") {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			continue
		}
		location, err := interfaces.NewKeyStoreLocation(uri)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (sf *KeyStoreFactory) createEnvBackend(location interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	prefix := location.Host + strings.TrimPrefix(location.Path, "/")
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty env prefix", interfaces.ErrInvalidLocationURI)
	}
	return NewEnvBackend(prefix, sf.log), nil
}

// createFileBackend accepts file:///absolute/path.json or file://./relative/path.json.
func (sf *KeyStoreFactory) createFileBackend(location interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	path := location.Path
	if location.Host != "" {
		path = location.Host + "/" + strings.TrimPrefix(path, "/")
	}
	return NewFileBackend(path, sf.log)
}

func (sf *KeyStoreFactory) createS3Backend(location interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	region := location.GetParam("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if location.Auth != "" {
		accessKey, secretKey, _ = strings.Cut(location.Auth, ":")
	}

	return NewS3Backend(location.Host, strings.TrimPrefix(location.Path, "/"), region,
		location.GetParam("endpoint"), accessKey, secretKey, sf.log)
}

func (sf *KeyStoreFactory) createVaultBackend(location interfaces.KeyStoreLocation) (interfaces.KeyStore, error) {
	scheme := "https"
	if location.Query.Has("tls") && !location.GetParamBool("tls") {
		scheme = "http"
	}

	mountPath, dataPath, _ := strings.Cut(strings.TrimPrefix(location.Path, "/"), "/")

	tokenEnv := location.GetParam("token-env")
	if tokenEnv == "" {
		tokenEnv = "VAULT_TOKEN"
	}

	return NewVaultBackend(fmt.Sprintf("%s://%s", scheme, location.Host), mountPath, dataPath, os.Getenv(tokenEnv), sf.log)
}
