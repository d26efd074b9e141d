package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/wneessen/go-mail"
)

// TLS policies accepted by SMTPConfig.TLSPolicy.
const (
	TLSPolicyMandatory     = "mandatory"
	TLSPolicyOpportunistic = "opportunistic"
	TLSPolicySSL           = "ssl"
	TLSPolicyNone          = "none"
)

// SMTPConfig configures an SMTPMailer.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	TLSPolicy string
	Timeout   time.Duration
}

// Validate reports missing or inconsistent settings.
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: smtp host not set", interfaces.ErrConfiguration)
	}
	if c.From == "" {
		return fmt.Errorf("%w: sender address not set", interfaces.ErrConfiguration)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid smtp port %d", interfaces.ErrConfiguration, c.Port)
	}
	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("%w: smtp username and password must be set together", interfaces.ErrConfiguration)
	}
	switch c.TLSPolicy {
	case "", TLSPolicyMandatory, TLSPolicyOpportunistic, TLSPolicySSL, TLSPolicyNone:
	default:
		return fmt.Errorf("%w: unknown tls policy %q", interfaces.ErrConfiguration, c.TLSPolicy)
	}
	return nil
}

// SMTPMailer submits messages to an SMTP relay, opening one connection per message.
type SMTPMailer struct {
	cfg  SMTPConfig
	opts []mail.Option
	log  *slog.Logger
}

// NewSMTPMailer validates cfg and prepares the client options.
func NewSMTPMailer(cfg SMTPConfig, log *slog.Logger) (*SMTPMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	opts := []mail.Option{mail.WithTimeout(timeout)}
	if cfg.Port != 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}

	switch cfg.TLSPolicy {
	case TLSPolicySSL:
		opts = append(opts, mail.WithSSL())
	case TLSPolicyOpportunistic:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case TLSPolicyNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return &SMTPMailer{cfg: cfg, opts: opts, log: log}, nil
}

// Send builds the message and delivers it to the relay.
func (s *SMTPMailer) Send(ctx context.Context, msg interfaces.Message) (interfaces.MessageID, error) {
	id := s.newMessageID()

	m, err := buildMessage(s.cfg.From, msg, id)
	if err != nil {
		return "", err
	}

	client, err := mail.NewClient(s.cfg.Host, s.opts...)
	if err != nil {
		return "", fmt.Errorf("%w: creating smtp client: %v", interfaces.ErrDownstreamAction, err)
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("SMTP delivery failed",
			slog.String("host", s.cfg.Host),
			slog.Duration("duration", time.Since(start)),
			"err", err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrDownstreamAction, err)
	}

	s.log.Info("Message delivered",
		slog.String("message_id", string(id)),
		slog.Duration("duration", time.Since(start)))
	return id, nil
}

func (s *SMTPMailer) newMessageID() interfaces.MessageID {
	domain := s.cfg.Host
	if _, d, ok := strings.Cut(s.cfg.From, "@"); ok {
		domain = d
	}
	return interfaces.MessageID(fmt.Sprintf("%s@%s", uuid.NewString(), domain))
}

// buildMessage converts msg into a MIME message. When both bodies are set the
// HTML body is attached as an alternative to the text body.
func buildMessage(from string, msg interfaces.Message, id interfaces.MessageID) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("%w: invalid sender: %v", interfaces.ErrConfiguration, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient: %v", interfaces.ErrDownstreamAction, err)
	}
	m.Subject(msg.Subject)
	m.SetMessageIDWithValue(string(id))
	m.SetDate()

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	return m, nil
}
