package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/api/keyshandler"
	"github.com/ruteri/secure-date-gateway/api/mailhandler"
	"github.com/ruteri/secure-date-gateway/availability"
	"github.com/ruteri/secure-date-gateway/gate"
	"github.com/ruteri/secure-date-gateway/mailer"
	"github.com/ruteri/secure-date-gateway/metrics"
	"github.com/ruteri/secure-date-gateway/securedate"
	"github.com/ruteri/secure-date-gateway/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = map[string]string{"apiKey1": "one", "apiKey2": "two"}

type testEnv struct {
	server      *Server
	sw          *availability.Switch
	scheme      securedate.Scheme
	adminScheme securedate.Scheme
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetrics("test")

	scheme, err := securedate.NewScheme(securedate.SchemePhrase, securedate.Options{
		Secret:   []byte("k1"),
		Location: time.UTC,
	})
	require.NoError(t, err)

	adminScheme, err := securedate.NewScheme(securedate.SchemePhrase, securedate.Options{
		Secret:   []byte("admin-secret"),
		Location: time.UTC,
	})
	require.NoError(t, err)

	sw := availability.New(m)
	srv, err := New(&api.HTTPServerConfig{
		ListenAddr:               ":0",
		Log:                      logger,
		GracefulShutdownDuration: time.Second,
	}, Components{
		Switch:    sw,
		Gate:      gate.New(scheme, gate.Options{Name: "api", Log: logger, Metrics: m}),
		AdminGate: gate.New(adminScheme, gate.Options{Name: "admin", Log: logger, Metrics: m}),
		Metrics:   m,
		Handlers: []RouteRegistrar{
			keyshandler.NewHandler(storage.NewStaticBackend(testKeys), logger),
			mailhandler.NewHandler(mailer.NewLogMailer(logger), m, logger),
		},
	})
	require.NoError(t, err)

	return &testEnv{server: srv, sw: sw, scheme: scheme, adminScheme: adminScheme}
}

func (e *testEnv) do(t *testing.T, method, path string, scheme securedate.Scheme, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if scheme != nil {
		credential, err := scheme.Encode(time.Now())
		require.NoError(t, err)
		req.Header.Set(gate.DefaultHeader, credential)
	}
	rr := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestGetKeys(t *testing.T) {
	env := setupServer(t)

	rr := env.do(t, http.MethodGet, "/api/get-keys", env.scheme, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.KeysResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, testKeys, resp.Keys)
}

func TestGetKeys_Denied(t *testing.T) {
	env := setupServer(t)

	rr := env.do(t, http.MethodGet, "/api/get-keys", nil, "")
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, gate.MessageHeaderMissing, decodeError(t, rr).Message)

	// The admin credential does not open protected routes.
	rr = env.do(t, http.MethodGet, "/api/get-keys", env.adminScheme, "")
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, gate.MessageValidationFailed, decodeError(t, rr).Message)
	assert.NotContains(t, rr.Body.String(), "apiKey1")
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupServer(t)

	rr := env.do(t, http.MethodPost, "/api/get-keys", env.scheme, "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "Method Not Allowed", resp.Error)
	assert.Equal(t, "Method not allowed", resp.Message)
}

func TestCredentialWithoutDelimiter(t *testing.T) {
	env := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/get-keys", nil)
	req.Header.Set(gate.DefaultHeader, "bm8tZGVsaW1pdGVyLWhlcmU=")
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "Forbidden", resp.Error)
	assert.Equal(t, gate.MessageValidationFailed, resp.Message)
}

func TestDisabledServer(t *testing.T) {
	env := setupServer(t)

	rr := env.do(t, http.MethodPost, "/admin/disable", env.adminScheme, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, env.sw.Available())

	// Valid credential, still unavailable
	rr = env.do(t, http.MethodGet, "/api/get-keys", env.scheme, "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, availability.UnavailableMessage, decodeError(t, rr).Message)

	// Availability is checked before the gate
	rr = env.do(t, http.MethodGet, "/api/get-keys", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/send-email", env.scheme, `{"to":"a@example.com","subject":"s","text":"t"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = env.do(t, http.MethodGet, "/unknown", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	// Wrong method on a protected path
	rr = env.do(t, http.MethodPost, "/api/get-keys", env.scheme, "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, availability.UnavailableMessage, decodeError(t, rr).Message)

	rr = env.do(t, http.MethodGet, "/api/send-email", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	// Liveness is exempt
	rr = env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var health api.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Timestamp)

	rr = env.do(t, http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	// Admin routes stay reachable
	rr = env.do(t, http.MethodPost, "/admin/enable", env.adminScheme, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.sw.Available())

	rr = env.do(t, http.MethodGet, "/api/get-keys", env.scheme, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminRoutes(t *testing.T) {
	env := setupServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/admin/enable"},
		{http.MethodPost, "/admin/disable"},
		{http.MethodGet, "/admin/status"},
	} {
		t.Run(route.path, func(t *testing.T) {
			rr := env.do(t, route.method, route.path, nil, "")
			assert.Equal(t, http.StatusForbidden, rr.Code)

			rr = env.do(t, route.method, route.path, env.scheme, "")
			assert.Equal(t, http.StatusForbidden, rr.Code)
		})
	}
	assert.True(t, env.sw.Available())

	// Disabling twice is a no-op
	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/admin/disable", env.adminScheme, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp api.StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "disabled", resp.Status)
		require.NotNil(t, resp.Available)
		assert.False(t, *resp.Available)
	}

	rr := env.do(t, http.MethodGet, "/admin/status", env.adminScheme, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"available":false`)
}

func TestConcurrentToggle(t *testing.T) {
	env := setupServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			env.do(t, http.MethodPost, "/admin/disable", env.adminScheme, "")
		}()
		go func() {
			defer wg.Done()
			env.do(t, http.MethodGet, "/api/get-keys", env.scheme, "")
		}()
	}
	wg.Wait()
	assert.False(t, env.sw.Available())

	env.do(t, http.MethodPost, "/admin/enable", env.adminScheme, "")
	assert.True(t, env.sw.Available())
}

func TestSendEmail(t *testing.T) {
	env := setupServer(t)

	rr := env.do(t, http.MethodPost, "/api/send-email", env.scheme, `{"to":"alice@example.com","subject":"Hello","text":"Hi"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.SendEmailResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.MessageID)

	// Invalid bodies are only inspected after the gate
	rr = env.do(t, http.MethodPost, "/api/send-email", nil, `garbage`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/send-email", env.scheme, `garbage`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/get-keys", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", gate.DefaultHeader)
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")), gate.DefaultHeader)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&api.HTTPServerConfig{Log: slog.Default()}, Components{})
	assert.Error(t, err)

	env := setupServer(t)
	_, err = New(&api.HTTPServerConfig{Log: slog.Default(), MetricsAddr: ":0"}, Components{
		Switch:    env.sw,
		Gate:      gate.New(env.scheme, gate.Options{}),
		AdminGate: gate.New(env.adminScheme, gate.Options{}),
	})
	assert.Error(t, err)
}
