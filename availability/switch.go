// Package availability holds the process-wide switch operators use to take
// the gateway's protected routes offline without stopping the process.
package availability

import (
	"net/http"

	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/metrics"
	"go.uber.org/atomic"
)

// UnavailableMessage is returned with every 503 while the switch is off.
const UnavailableMessage = "Server is temporarily unavailable"

// Switch is a last-write-wins boolean shared by every request. The zero
// value is not usable; construct with New.
type Switch struct {
	available atomic.Bool
	metrics   *metrics.Metrics
}

// New returns a switch in the available state. m may be nil.
func New(m *metrics.Metrics) *Switch {
	s := &Switch{metrics: m}
	s.available.Store(true)
	m.SetAvailable(true)
	return s
}

// Available reports whether protected routes are served.
func (s *Switch) Available() bool {
	return s.available.Load()
}

// Enable marks the server available. It reports whether the state changed.
func (s *Switch) Enable() bool {
	changed := !s.available.Swap(true)
	s.metrics.SetAvailable(true)
	return changed
}

// Disable marks the server unavailable. It reports whether the state changed.
func (s *Switch) Disable() bool {
	changed := s.available.Swap(false)
	s.metrics.SetAvailable(false)
	return changed
}

// Middleware rejects every request with 503 while the switch is off. It is
// meant to sit in front of the access gate so that credential checks are
// never reached on a disabled server.
func (s *Switch) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.available.Load() {
			api.WriteError(w, http.StatusServiceUnavailable, UnavailableMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}
