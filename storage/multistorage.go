package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/secure-date-gateway/interfaces"
)

// MultiKeyStore merges the keys of several backends. When two backends
// disclose the same name, the earlier backend wins.
type MultiKeyStore struct {
	backends []interfaces.KeyStore
	log      *slog.Logger
}

// NewMultiKeyStore creates a merged key store over backends.
func NewMultiKeyStore(backends []interfaces.KeyStore, logger *slog.Logger) *MultiKeyStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiKeyStore{
		backends: backends,
		log:      logger,
	}
}

// Load reads every backend. It fails only when no backend could be read.
func (m *MultiKeyStore) Load(ctx context.Context) (map[string]string, error) {
	start := time.Now()
	keys := make(map[string]string)
	var errs []error
	loaded := 0

	for _, backend := range m.backends {
		backendKeys, err := backend.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Debug("Failed to load keys from backend",
				slog.String("backend_name", backend.Name()),
				"err", err)
			continue
		}

		loaded++
		for name, value := range backendKeys {
			if _, exists := keys[name]; !exists {
				keys[name] = value
			}
		}
	}

	if loaded == 0 {
		m.log.Error("All backends failed to load keys",
			slog.Int("failed_backends", len(errs)),
			slog.Duration("duration", time.Since(start)))
		if len(errs) == 0 {
			return nil, interfaces.ErrKeysNotFound
		}
		return nil, fmt.Errorf("all backends failed to load keys: %w", errors.Join(errs...))
	}

	return keys, nil
}

// Name returns the name of this backend.
func (m *MultiKeyStore) Name() string {
	return "multi-keystore"
}

// LocationURI returns the combined URI of all backends.
func (m *MultiKeyStore) LocationURI() string {
	var locations []string
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}

	return "multi:[" + strings.Join(locations, ",") + "]"
}
