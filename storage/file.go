package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/secure-date-gateway/interfaces"
)

// FileBackend reads disclosed keys from a JSON object on the local file system:
//
//	{"apiKey1": "...", "apiKey2": "..."}
type FileBackend struct {
	path        string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a file backend for the JSON file at path.
func NewFileBackend(path string, log *slog.Logger) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("empty key file path")
	}

	return &FileBackend{
		path:        path,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", path),
	}, nil
}

// Load reads and decodes the key file.
func (b *FileBackend) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrKeysNotFound, b.path)
		}
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	keys, err := decodeKeys(data)
	if err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", b.path, err)
	}

	b.log.Debug("Loaded keys from file",
		slog.String("path", b.path),
		slog.Int("count", len(keys)))
	return keys, nil
}

// Name returns a unique identifier for this backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.path))
}

// LocationURI returns the URI that identifies this backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

// decodeKeys parses a flat JSON object of string values.
func decodeKeys(data []byte) (map[string]string, error) {
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, interfaces.ErrKeysNotFound
	}
	return keys, nil
}
