package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockKeyStore implements interfaces.KeyStore for testing
type MockKeyStore struct {
	mock.Mock
	name string
}

func (m *MockKeyStore) Load(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockKeyStore) Name() string {
	return m.name
}

func (m *MockKeyStore) LocationURI() string {
	return "mock://" + m.name
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"API_KEY_1":     "apiKey1",
		"API_KEY_2":     "apiKey2",
		"API_KEY_ADMIN": "apiKeyAdmin",
		"TOKEN":         "token",
		"A__B":          "aB",
	}
	for in, want := range tests {
		assert.Equal(t, want, CamelCase(in), in)
	}
}

func TestEnvBackend(t *testing.T) {
	t.Setenv("GWTEST_KEY_1", "first")
	t.Setenv("GWTEST_KEY_2", "second")
	t.Setenv("GWTEST_KEY_3", "")

	backend := NewEnvBackend("GWTEST_KEY_", testLogger)
	keys, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gwtestKey1": "first", "gwtestKey2": "second"}, keys)
	assert.Equal(t, "env://GWTEST_KEY_", backend.LocationURI())

	_, err = NewEnvBackend("GWTEST_MISSING_", testLogger).Load(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrKeysNotFound)
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apiKey1":"one","apiKey2":"two"}`), 0o600))

	backend, err := NewFileBackend(path, testLogger)
	require.NoError(t, err)

	keys, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"apiKey1": "one", "apiKey2": "two"}, keys)
	assert.Equal(t, "file-keys.json", backend.Name())

	t.Run("missing file", func(t *testing.T) {
		backend, err := NewFileBackend(filepath.Join(dir, "absent.json"), testLogger)
		require.NoError(t, err)
		_, err = backend.Load(context.Background())
		assert.ErrorIs(t, err, interfaces.ErrKeysNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`["not","an","object"]`), 0o600))
		backend, err := NewFileBackend(bad, testLogger)
		require.NoError(t, err)
		_, err = backend.Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewFileBackend("", testLogger)
		assert.Error(t, err)
	})
}

func TestStaticBackend(t *testing.T) {
	src := map[string]string{"apiKey1": "one"}
	backend := NewStaticBackend(src)
	src["apiKey1"] = "mutated"

	keys, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", keys["apiKey1"])

	_, err = NewStaticBackend(nil).Load(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrKeysNotFound)
}

func TestMultiKeyStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("earlier backend wins", func(t *testing.T) {
		first := &MockKeyStore{name: "first"}
		second := &MockKeyStore{name: "second"}
		first.On("Load", ctx).Return(map[string]string{"apiKey1": "a"}, nil)
		second.On("Load", ctx).Return(map[string]string{"apiKey1": "b", "apiKey2": "c"}, nil)

		multi := NewMultiKeyStore([]interfaces.KeyStore{first, second}, testLogger)
		keys, err := multi.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"apiKey1": "a", "apiKey2": "c"}, keys)

		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("partial failure", func(t *testing.T) {
		broken := &MockKeyStore{name: "broken"}
		healthy := &MockKeyStore{name: "healthy"}
		broken.On("Load", ctx).Return(nil, interfaces.ErrBackendUnavailable)
		healthy.On("Load", ctx).Return(map[string]string{"apiKey1": "a"}, nil)

		multi := NewMultiKeyStore([]interfaces.KeyStore{broken, healthy}, testLogger)
		keys, err := multi.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"apiKey1": "a"}, keys)
	})

	t.Run("all fail", func(t *testing.T) {
		a := &MockKeyStore{name: "a"}
		b := &MockKeyStore{name: "b"}
		a.On("Load", ctx).Return(nil, interfaces.ErrBackendUnavailable)
		b.On("Load", ctx).Return(nil, errors.New("boom"))

		multi := NewMultiKeyStore([]interfaces.KeyStore{a, b}, testLogger)
		_, err := multi.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
	})

	t.Run("no backends", func(t *testing.T) {
		_, err := NewMultiKeyStore(nil, testLogger).Load(ctx)
		assert.ErrorIs(t, err, interfaces.ErrKeysNotFound)
	})
}

func TestMultiKeyStore_LocationURI(t *testing.T) {
	multi := NewMultiKeyStore([]interfaces.KeyStore{
		&MockKeyStore{name: "a"},
		&MockKeyStore{name: "b"},
	}, testLogger)
	assert.Equal(t, "multi:[mock://a,mock://b]", multi.LocationURI())
}

func TestKeyStoreFactory(t *testing.T) {
	factory := NewKeyStoreFactory(testLogger)

	tests := []struct {
		name     string
		uri      string
		wantName string
		wantErr  bool
	}{
		{name: "env", uri: "env://API_KEY_", wantName: "env-API_KEY_"},
		{name: "file", uri: "file:///etc/gateway/keys.json", wantName: "file-keys.json"},
		{name: "s3", uri: "s3://bucket/gateway/keys.json?region=eu-west-1", wantName: "s3-bucket"},
		{name: "s3 without key", uri: "s3://bucket", wantErr: true},
		{name: "vault", uri: "vault://127.0.0.1:8200/secret/gateway/keys?tls=false", wantName: "vault-secret-gateway/keys"},
		{name: "vault without path", uri: "vault://127.0.0.1:8200/secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, err := interfaces.NewKeyStoreLocation(tt.uri)
			require.NoError(t, err)

			backend, err := factory.KeyStoreFor(location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, backend.Name())
		})
	}
}

func TestKeyStoreFactory_CreateMultiKeyStore(t *testing.T) {
	t.Setenv("GWMULTI_KEY_1", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gwmultiKey1":"from-file","fileOnly":"x"}`), 0o600))

	locations, err := ParseLocations("env://GWMULTI_KEY_, file://" + path + ", s3://bucket")
	require.NoError(t, err)
	require.Len(t, locations, 3)

	store, err := NewKeyStoreFactory(testLogger).CreateMultiKeyStore(locations)
	require.NoError(t, err)

	keys, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", keys["gwmultiKey1"])
	assert.Equal(t, "x", keys["fileOnly"])

	_, err = NewKeyStoreFactory(testLogger).CreateMultiKeyStore(nil)
	assert.Error(t, err)
}

func TestParseLocations_Invalid(t *testing.T) {
	_, err := ParseLocations("ftp://example.com/keys")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}
