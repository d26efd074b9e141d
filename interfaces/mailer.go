package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrConfiguration means the service lacks a setting it needs to serve the request.
	ErrConfiguration = errors.New("service misconfigured")

	// ErrDownstreamAction wraps failures of a gated action such as mail delivery.
	ErrDownstreamAction = errors.New("downstream action failed")
)

// MessageID identifies a message accepted by a Mailer.
type MessageID string

// Message is an outbound email. At least one of Text and HTML is set.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers outbound messages. Implementations wrap delivery failures
// in ErrDownstreamAction.
type Mailer interface {
	Send(ctx context.Context, msg Message) (MessageID, error)
}
