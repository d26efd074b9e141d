package api

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// KeysResponse is returned by the key disclosure endpoint.
type KeysResponse struct {
	Success bool              `json:"success"`
	Keys    map[string]string `json:"keys"`
}

// SendEmailRequest is the body accepted by the message dispatch endpoint.
// Exactly one of Text and HTML is usually set; both are allowed.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email,max=320"`
	Subject string `json:"subject" validate:"required,max=998"`
	Text    string `json:"text,omitempty" validate:"required_without=HTML"`
	HTML    string `json:"html,omitempty" validate:"required_without=Text"`
}

// SendEmailResponse is returned after a message was handed to the mailer.
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// StatusResponse is returned by liveness, readiness and admin routes.
type StatusResponse struct {
	Status    string `json:"status"`
	Available *bool  `json:"available,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
