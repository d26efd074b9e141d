package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/secure-date-gateway/interfaces"
)

// VaultBackend reads disclosed keys from a HashiCorp Vault KV v2 secret.
// Every string field of the secret is disclosed under its field name.
type VaultBackend struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultBackend creates a Vault backend authenticating with token.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: Secret path within the mount (e.g. "gateway/keys")
//   - token: Vault token; the client falls back to VAULT_TOKEN when empty
//   - log: Structured logger for operational insights
func NewVaultBackend(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultBackend, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")
	if mountPath == "" || dataPath == "" {
		return nil, fmt.Errorf("%w: vault location needs a mount and a secret path", interfaces.ErrInvalidLocationURI)
	}

	return &VaultBackend{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(address, "https://"), "http://"), mountPath, dataPath),
	}, nil
}

// Load reads the secret and returns its string fields.
func (b *VaultBackend) Load(ctx context.Context) (map[string]string, error) {
	start := time.Now()

	// KV v2 path structure
	path := fmt.Sprintf("%s/data/%s", b.mountPath, b.dataPath)

	secret, err := b.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		b.log.Error("Failed to read from Vault",
			slog.String("path", path),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrKeysNotFound, path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}

	keys := make(map[string]string, len(data))
	for name, value := range data {
		s, ok := value.(string)
		if !ok {
			b.log.Warn("Skipping non-string Vault field", slog.String("field", name))
			continue
		}
		keys[name] = s
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrKeysNotFound, path)
	}

	b.log.Debug("Loaded keys from Vault",
		slog.String("path", path),
		slog.Int("count", len(keys)),
		slog.Duration("duration", time.Since(start)))
	return keys, nil
}

// Name returns a unique identifier for this backend.
func (b *VaultBackend) Name() string {
	return fmt.Sprintf("vault-%s-%s", b.mountPath, b.dataPath)
}

// LocationURI returns the URI that identifies this backend.
func (b *VaultBackend) LocationURI() string {
	return b.locationURI
}
