package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/diagnosis/syllatech-api/pkg/config"
)

func TestNew_SelectsProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EmailConfig
		want    string
		enabled bool
	}{
		{"nothing configured", config.EmailConfig{}, "disabled", false},
		{"dev mode wins", config.EmailConfig{DevMode: true, SMTPHost: "smtp.example.com"}, "dev", true},
		{"mailersend key", config.EmailConfig{MailerSendKey: "k", SMTPHost: "smtp.example.com"}, "mailersend", true},
		{"smtp host", config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, "smtp", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg)
			var got string
			switch s.(type) {
			case Disabled:
				got = "disabled"
			case *DevMailer:
				got = "dev"
			case *MailerSend:
				got = "mailersend"
			case *SMTPMailer:
				got = "smtp"
			}
			if got != tt.want {
				t.Errorf("provider = %s, want %s", got, tt.want)
			}
			if s.Enabled() != tt.enabled {
				t.Errorf("Enabled() = %v, want %v", s.Enabled(), tt.enabled)
			}
		})
	}
}

func TestDisabled_Send(t *testing.T) {
	err := Disabled{}.Send(context.Background(), Message{To: "a@b.c"})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestSMTPMailer_RejectsEmptyRecipient(t *testing.T) {
	s := NewSMTPMailer(config.EmailConfig{SMTPHost: "localhost", SMTPPort: 1025, From: "noreply@example.com"})
	if err := s.Send(context.Background(), Message{To: "  "}); err == nil {
		t.Error("expected error for empty recipient")
	}
}

func TestDevMailer_Send(t *testing.T) {
	if err := NewDevMailer().Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}); err != nil {
		t.Errorf("Send: %v", err)
	}
}
