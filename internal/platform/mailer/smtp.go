package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/diagnosis/syllatech-api/pkg/config"
)

type SMTPMailer struct {
	Host     string
	Port     int
	From     string
	FromName string
	User     string
	Pass     string
	UseTLS   bool // false for Mailpit on 1025
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		Host:     strings.TrimSpace(cfg.SMTPHost),
		Port:     cfg.SMTPPort,
		From:     strings.TrimSpace(cfg.From),
		FromName: cfg.FromName,
		User:     strings.TrimSpace(cfg.SMTPUser),
		Pass:     strings.TrimSpace(cfg.SMTPPass),
		UseTLS:   cfg.SMTPUseTLS,
	}
}

func (s *SMTPMailer) Enabled() bool { return s.Host != "" }

func (s *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(s.Port)}
	if s.UseTLS {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	}
	// Login only when both credentials are present.
	if s.User != "" && s.Pass != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.User),
			mail.WithPassword(s.Pass),
		)
	}
	return mail.NewClient(s.Host, opts...)
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	to := strings.TrimSpace(m.To)
	if to == "" {
		return fmt.Errorf("empty recipient email")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.FromName, s.From); err != nil {
		return fmt.Errorf("failed to set from: %w", err)
	}
	if err := msg.AddToFormat(m.ToName, to); err != nil {
		return fmt.Errorf("failed to set to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	client, err := s.client()
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
