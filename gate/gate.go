// Package gate implements the access gate placed in front of every protected
// action. A request is admitted only when the credential carried in the
// secure header verifies under the configured securedate.Scheme.
package gate

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/ruteri/secure-date-gateway/metrics"
	"github.com/ruteri/secure-date-gateway/securedate"
)

// DefaultHeader carries the credential.
const DefaultHeader = "x-secure-date"

const (
	// ReasonHeaderMissing is the deny reason when no credential was sent.
	ReasonHeaderMissing = "header missing"

	// ReasonValidationFailed is the deny reason for every verification failure.
	ReasonValidationFailed = "validation failed"

	// ReasonMisconfigured is the deny reason when the gate has no scheme.
	ReasonMisconfigured = "misconfigured"

	// MessageHeaderMissing is the response message for ReasonHeaderMissing.
	MessageHeaderMissing = "Security header missing"

	// MessageValidationFailed is the response message for ReasonValidationFailed.
	MessageValidationFailed = "Security validation failed"

	// MessageMisconfigured is returned with 500 when the gate cannot verify anything.
	MessageMisconfigured = "Server security configuration missing"
)

// ErrMissingCredential is set on a Decision when the header is absent.
var ErrMissingCredential = errors.New("missing credential")

// Decision is the outcome of Authorize. Err keeps the internal cause for
// logging and is never written to the response.
type Decision struct {
	Admit  bool
	Reason string
	Err    error
}

// Options configures a Gate.
type Options struct {
	// Header is the request header carrying the credential. Defaults to DefaultHeader.
	Header string

	// Name is attached to log lines, e.g. "api" or "admin".
	Name string

	Log     *slog.Logger
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Gate admits or denies requests. It is safe for concurrent use.
type Gate struct {
	scheme  securedate.Scheme
	header  string
	name    string
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a gate verifying credentials with scheme. A nil scheme yields a
// gate that answers every request with 500.
func New(scheme securedate.Scheme, opts Options) *Gate {
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Gate{
		scheme:  scheme,
		header:  opts.Header,
		name:    opts.Name,
		log:     opts.Log,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
}

// Header returns the name of the header the gate reads.
func (g *Gate) Header() string {
	return g.header
}

// Authorize extracts and verifies the credential of r.
func (g *Gate) Authorize(r *http.Request) Decision {
	if g.scheme == nil {
		return Decision{Reason: ReasonMisconfigured, Err: interfaces.ErrConfiguration}
	}

	credential := r.Header.Get(g.header)
	if credential == "" {
		g.metrics.ObserveVerification(g.scheme.Name(), "missing")
		return Decision{Reason: ReasonHeaderMissing, Err: ErrMissingCredential}
	}

	if err := g.scheme.Verify(credential, g.now()); err != nil {
		g.metrics.ObserveVerification(g.scheme.Name(), securedate.Kind(err))
		return Decision{Reason: ReasonValidationFailed, Err: err}
	}

	g.metrics.ObserveVerification(g.scheme.Name(), securedate.Kind(nil))
	return Decision{Admit: true}
}

// Middleware lets admitted requests through and answers every denial with a
// generic 403.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Authorize(r)
		if decision.Admit {
			next.ServeHTTP(w, r)
			return
		}

		g.log.Info("Request denied by access gate",
			slog.String("gate", g.name),
			slog.String("path", r.URL.Path),
			slog.String("reason", decision.Reason),
			slog.String("kind", securedate.Kind(decision.Err)),
			"err", decision.Err)

		switch decision.Reason {
		case ReasonMisconfigured:
			api.WriteError(w, http.StatusInternalServerError, MessageMisconfigured)
		case ReasonHeaderMissing:
			api.WriteError(w, http.StatusForbidden, MessageHeaderMissing)
		default:
			api.WriteError(w, http.StatusForbidden, MessageValidationFailed)
		}
	})
}
