package mailer

import (
	"context"
	"errors"

	"github.com/diagnosis/syllatech-api/pkg/config"
)

var ErrDisabled = errors.New("mailer disabled")

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a single message. Enabled is false when no provider is
// configured; callers decide whether that is an error.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// New picks the provider from config: dev mode logs only, then MailerSend,
// then SMTP. With none configured the returned sender is disabled.
func New(cfg config.EmailConfig) Sender {
	switch {
	case cfg.DevMode:
		return NewDevMailer()
	case cfg.MailerSendKey != "":
		return NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.From)
	case cfg.SMTPHost != "":
		return NewSMTPMailer(cfg)
	default:
		return Disabled{}
	}
}

type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrDisabled }
func (Disabled) Enabled() bool                        { return false }
