// Package smtp delivers workflow emails over SMTP.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

var ErrMissingHost = errors.New("smtp host is required")

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type deliverer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender implements protocol.EmailSender.
type Sender struct {
	from   string
	client deliverer
}

// NewSender builds a client that upgrades to TLS when the server offers it
// and authenticates only when a username is configured.
func NewSender(config Config) (*Sender, error) {
	if strings.TrimSpace(config.Host) == "" {
		return nil, ErrMissingHost
	}

	options := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}

	if config.Port > 0 {
		options = append(options, mail.WithPort(config.Port))
	}

	if config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	client, err := mail.NewClient(config.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &Sender{from: config.From, client: client}, nil
}

func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := s.message(to, subject, htmlBody)
	if err != nil {
		return err
	}

	return s.client.DialAndSendWithContext(ctx, msg)
}

func (s *Sender) message(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", s.from, err)
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", to, err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return msg, nil
}
