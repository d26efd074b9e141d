package keyshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/interfaces"
)

const (
	// MessageNoKeys is returned when no key source holds any key.
	MessageNoKeys = "No API keys configured"

	// MessageKeysUnavailable is returned when the key sources could not be read.
	MessageKeysUnavailable = "API keys temporarily unavailable"
)

// Handler discloses the keys of a KeyStore to admitted callers.
type Handler struct {
	keys interfaces.KeyStore
	log  *slog.Logger
}

// NewHandler creates a handler serving keys. keys may be nil, in which case
// every request is answered with 500.
func NewHandler(keys interfaces.KeyStore, log *slog.Logger) *Handler {
	return &Handler{
		keys: keys,
		log:  log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/get-keys", h.HandleGetKeys)
}

// HandleGetKeys loads the keys on every request so rotated values are served
// without a restart.
func (h *Handler) HandleGetKeys(w http.ResponseWriter, r *http.Request) {
	if h.keys == nil {
		h.log.Error("Key disclosure requested without a key store")
		api.WriteError(w, http.StatusInternalServerError, MessageNoKeys)
		return
	}

	keys, err := h.keys.Load(r.Context())
	if err != nil {
		h.log.Error("Failed to load keys",
			slog.String("store", h.keys.LocationURI()),
			"err", err)
		if errors.Is(err, interfaces.ErrKeysNotFound) {
			api.WriteError(w, http.StatusInternalServerError, MessageNoKeys)
			return
		}
		api.WriteError(w, http.StatusInternalServerError, MessageKeysUnavailable)
		return
	}

	if len(keys) == 0 {
		api.WriteError(w, http.StatusInternalServerError, MessageNoKeys)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	if err := api.WriteJSON(w, http.StatusOK, api.KeysResponse{Success: true, Keys: keys}); err != nil {
		h.log.Error("Failed to write keys response", "err", err)
	}
}
