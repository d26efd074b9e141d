package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ruteri/secure-date-gateway/interfaces"
)

// LogMailer accepts every message and only logs it.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(ctx context.Context, msg interfaces.Message) (interfaces.MessageID, error) {
	id := interfaces.MessageID(uuid.NewString())
	l.log.Info("Dry run, message not delivered",
		slog.String("message_id", string(id)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("text_len", len(msg.Text)),
		slog.Int("html_len", len(msg.HTML)))
	return id, nil
}
