package mailhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/ruteri/secure-date-gateway/metrics"
)

// MaxBodySize bounds the request body.
const MaxBodySize = 64 << 10

const (
	MessageSent           = "Email sent"
	MessageNotConfigured  = "Email service not configured"
	MessageInvalidBody    = "Invalid request body"
	MessageBodyTooLarge   = "Request body too large"
	MessageDeliveryFailed = "Failed to send email"
)

// Handler dispatches validated messages to a Mailer.
type Handler struct {
	mailer   interfaces.Mailer
	validate *validator.Validate
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewHandler creates a handler. mailer may be nil, in which case every
// request is answered with 500. m may be nil.
func NewHandler(mailer interfaces.Mailer, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		mailer:   mailer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/send-email", h.HandleSendEmail)
}

func (h *Handler) HandleSendEmail(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil {
		h.log.Error("Message dispatch requested without a mailer")
		api.WriteError(w, http.StatusInternalServerError, MessageNotConfigured)
		return
	}

	var req api.SendEmailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, MessageBodyTooLarge)
			return
		}
		api.WriteError(w, http.StatusBadRequest, MessageInvalidBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.ObserveMessage("invalid")
		api.WriteError(w, http.StatusBadRequest, describeValidation(err))
		return
	}

	id, err := h.mailer.Send(r.Context(), interfaces.Message{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if err != nil {
		h.metrics.ObserveMessage("failed")
		h.log.Error("Failed to send message", "err", err)
		api.WriteError(w, http.StatusInternalServerError, MessageDeliveryFailed)
		return
	}

	h.metrics.ObserveMessage("sent")
	h.log.Info("Message sent", slog.String("message_id", string(id)))

	if err := api.WriteJSON(w, http.StatusOK, api.SendEmailResponse{
		Success:   true,
		Message:   MessageSent,
		MessageID: string(id),
	}); err != nil {
		h.log.Error("Failed to write send-email response", "err", err)
	}
}

// describeValidation lists the offending JSON fields.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MessageInvalidBody
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Sprintf("%s: invalid %s", MessageInvalidBody, strings.Join(fields, ", "))
}
