// Package mailer provides SMTP delivery for notification envelopes.
package mailer

import (
	"context"
	"fmt"

	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/wneessen/go-mail"
)

// Config is the required properties to reach the SMTP relay.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Mailer delivers envelopes over SMTP. It implements notifybus.Mailer.
type Mailer struct {
	client *mail.Client
}

// New constructs a mailer against the configured relay.
func New(cfg Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	return &Mailer{
		client: client,
	}, nil
}

// Send delivers a single envelope. The context bounds the whole SMTP
// conversation.
func (m *Mailer) Send(ctx context.Context, env notifybus.Envelope) error {
	msg := mail.NewMsg()

	if err := msg.From(env.From.Address); err != nil {
		return fmt.Errorf("from: %w", err)
	}

	if err := msg.To(env.To.Address); err != nil {
		return fmt.Errorf("to: %w", err)
	}

	if env.ReplyTo != nil {
		if err := msg.ReplyTo(env.ReplyTo.Address); err != nil {
			return fmt.Errorf("reply-to: %w", err)
		}
	}

	msg.Subject(env.Subject)
	msg.SetBodyString(mail.TypeTextHTML, env.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}

	return nil
}
