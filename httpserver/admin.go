package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/availability"
)

// AdminHandler exposes the availability switch to operators.
type AdminHandler struct {
	sw  *availability.Switch
	log *slog.Logger
}

// NewAdminHandler creates an admin handler for sw.
func NewAdminHandler(sw *availability.Switch, log *slog.Logger) *AdminHandler {
	return &AdminHandler{sw: sw, log: log}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/enable", h.HandleEnable)
	r.Post("/admin/disable", h.HandleDisable)
	r.Get("/admin/status", h.HandleStatus)
}

// HandleEnable is idempotent.
func (h *AdminHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	if h.sw.Enable() {
		h.log.Warn("Server enabled by operator", slog.String("remote_addr", r.RemoteAddr))
	}
	h.writeState(w)
}

// HandleDisable is idempotent.
func (h *AdminHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	if h.sw.Disable() {
		h.log.Warn("Server disabled by operator", slog.String("remote_addr", r.RemoteAddr))
	}
	h.writeState(w)
}

func (h *AdminHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

func (h *AdminHandler) writeState(w http.ResponseWriter) {
	available := h.sw.Available()
	status := "disabled"
	if available {
		status = "enabled"
	}
	_ = api.WriteJSON(w, http.StatusOK, api.StatusResponse{
		Status:    status,
		Available: &available,
		Timestamp: timestamp(time.Now()),
	})
}

// timestamp formats t as UTC ISO 8601 with milliseconds.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
