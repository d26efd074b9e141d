package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ruteri/secure-date-gateway/interfaces"
)

// EnvBackend discloses environment variables sharing a prefix. Variable names
// are converted to lower camel case, so API_KEY_1 is disclosed as apiKey1.
type EnvBackend struct {
	prefix string
	log    *slog.Logger
}

// NewEnvBackend creates a backend reading variables that start with prefix.
func NewEnvBackend(prefix string, log *slog.Logger) *EnvBackend {
	return &EnvBackend{prefix: prefix, log: log}
}

// Load reads the matching variables. Empty values are skipped.
func (b *EnvBackend) Load(ctx context.Context) (map[string]string, error) {
	keys := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, b.prefix) || value == "" {
			continue
		}
		keys[CamelCase(name)] = value
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no variables with prefix %s", interfaces.ErrKeysNotFound, b.prefix)
	}

	b.log.Debug("Loaded keys from environment",
		slog.String("prefix", b.prefix),
		slog.Int("count", len(keys)))
	return keys, nil
}

// Name returns a unique identifier for this backend.
func (b *EnvBackend) Name() string {
	return fmt.Sprintf("env-%s", b.prefix)
}

// LocationURI returns the URI that identifies this backend.
func (b *EnvBackend) LocationURI() string {
	return "env://" + b.prefix
}

// CamelCase converts an upper snake case name to lower camel case.
func CamelCase(name string) string {
	var sb strings.Builder
	first := true
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if !first {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		sb.WriteString(part)
		first = false
	}
	return sb.String()
}
