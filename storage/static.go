package storage

import (
	"context"
	"maps"

	"github.com/ruteri/secure-date-gateway/interfaces"
)

// StaticBackend serves a fixed in-memory key map.
type StaticBackend struct {
	keys map[string]string
}

// NewStaticBackend copies keys into a new backend.
func NewStaticBackend(keys map[string]string) *StaticBackend {
	return &StaticBackend{keys: maps.Clone(keys)}
}

// Load returns a copy of the keys.
func (b *StaticBackend) Load(ctx context.Context) (map[string]string, error) {
	if len(b.keys) == 0 {
		return nil, interfaces.ErrKeysNotFound
	}
	return maps.Clone(b.keys), nil
}

// Name returns a unique identifier for this backend.
func (b *StaticBackend) Name() string {
	return "static"
}

// LocationURI returns the URI that identifies this backend.
func (b *StaticBackend) LocationURI() string {
	return "static://"
}
