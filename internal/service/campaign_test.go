package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/diagnosis/syllatech-api/internal/domain"
)

func campaignRepos() Repos {
	repos := newRepos()
	repos.Audience = &mockAudienceRepo{recipients: map[domain.Audience][]domain.Recipient{
		domain.AudienceNewsletter: {
			{Email: "ana@example.com"},
			{Email: "Gone@Example.com"},
			{Email: "  "},
		},
		domain.AudienceBookings: {
			{Email: "bo@example.com", Name: strPtr(" Bo ")},
		},
	}}
	repos.Unsubscribed = &mockUnsubscribeRepo{emails: []string{"gone@example.com"}}
	return repos
}

func TestRecipients_FiltersUnsubscribed(t *testing.T) {
	svc := NewCampaignService(campaignRepos(), &mockNotifier{enabled: true}, &inlineQueue{}, 2)

	got, err := svc.Recipients(context.Background(), "newsletter")
	if err != nil {
		t.Fatalf("Recipients: %v", err)
	}
	if len(got) != 1 || got[0].Email != "ana@example.com" {
		t.Errorf("recipients = %+v", got)
	}

	got, _ = svc.Recipients(context.Background(), "bookings")
	if len(got) != 1 || domain.Deref(got[0].Name) != "Bo" {
		t.Errorf("bookings recipients = %+v", got)
	}

	if _, err := svc.Recipients(context.Background(), "everyone"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestAudiences_Labels(t *testing.T) {
	svc := NewCampaignService(campaignRepos(), &mockNotifier{}, &inlineQueue{}, 1)
	got, err := svc.Audiences(context.Background())
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if len(got) != 4 || got[3].ID != domain.AudienceAll || got[3].Label != "All (Unique Emails)" {
		t.Errorf("audiences = %+v", got)
	}
	if got[0].Count != 3 {
		t.Errorf("newsletter count = %d, want 3", got[0].Count)
	}
}

func TestSend(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		campaign   domain.Campaign
		wantErr    error
		wantDetail string
		wantTo     []string
	}{
		{
			name:     "mailer not configured",
			enabled:  false,
			campaign: domain.Campaign{Audience: "newsletter", Subject: "s", HTMLBody: "<p>x</p>"},
			wantErr:  domain.ErrMailerUnavailable,
		},
		{
			name:     "invalid audience",
			enabled:  true,
			campaign: domain.Campaign{Audience: "everyone", Subject: "s", HTMLBody: "<p>x</p>"},
			wantErr:  domain.ErrValidation,
		},
		{
			name:       "empty audience",
			enabled:    true,
			campaign:   domain.Campaign{Audience: "contact", Subject: "s", HTMLBody: "<p>x</p>"},
			wantErr:    domain.ErrValidation,
			wantDetail: "No recipients in selected audience",
		},
		{
			name:       "subset outside audience",
			enabled:    true,
			campaign:   domain.Campaign{Audience: "newsletter", Subject: "s", HTMLBody: "<p>x</p>", Recipients: []string{"gone@example.com"}},
			wantErr:    domain.ErrValidation,
			wantDetail: "No valid recipients in selection",
		},
		{
			name:     "whole audience",
			enabled:  true,
			campaign: domain.Campaign{Audience: "newsletter", Subject: "s", HTMLBody: "<p>x</p>"},
			wantTo:   []string{"ana@example.com"},
		},
		{
			name:     "subset",
			enabled:  true,
			campaign: domain.Campaign{Audience: "bookings", Subject: "s", HTMLBody: "hello", Recipients: []string{" bo@example.com ", "other@example.com"}},
			wantTo:   []string{"bo@example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{enabled: tt.enabled}
			svc := NewCampaignService(campaignRepos(), n, &inlineQueue{}, 2)

			res, err := svc.Send(context.Background(), &tt.campaign)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if tt.wantDetail != "" && err.Error() != tt.wantDetail {
					t.Errorf("detail = %q, want %q", err.Error(), tt.wantDetail)
				}
				return
			}
			if err != nil {
				t.Fatalf("Send: %v", err)
			}
			if res.Status != "sending" || res.Recipients != len(tt.wantTo) {
				t.Errorf("result = %+v", res)
			}

			var to []string
			for _, m := range n.sent {
				to = append(to, m.To)
				if !m.AppendUnsubscribe {
					t.Error("campaign mail must carry an unsubscribe link")
				}
			}
			sort.Strings(to)
			if strings.Join(to, ",") != strings.Join(tt.wantTo, ",") {
				t.Errorf("sent to %v, want %v", to, tt.wantTo)
			}
		})
	}
}

func TestSend_RecipientFailureDoesNotAbort(t *testing.T) {
	repos := campaignRepos()
	repos.Audience.(*mockAudienceRepo).recipients[domain.AudienceAll] = []domain.Recipient{
		{Email: "a@example.com"}, {Email: "b@example.com"}, {Email: "c@example.com"},
	}
	n := &mockNotifier{enabled: true, sendErr: map[string]error{"b@example.com": errors.New("smtp down")}}
	svc := NewCampaignService(repos, n, &inlineQueue{}, 1)

	res, err := svc.Send(context.Background(), &domain.Campaign{Audience: "all", Subject: "s", HTMLBody: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Message != "Email queued for 3 recipient(s)" {
		t.Errorf("message = %q", res.Message)
	}
	if len(n.sent) != 3 {
		t.Errorf("attempted %d sends, want 3", len(n.sent))
	}
}

func TestReply(t *testing.T) {
	ctx := context.Background()

	n := &mockNotifier{enabled: true}
	svc := NewCampaignService(newRepos(), n, &inlineQueue{}, 1)

	if _, err := svc.Reply(ctx, &domain.Reply{To: "nope"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	to, err := svc.Reply(ctx, &domain.Reply{To: " Ana@Example.com "})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if to != "ana@example.com" {
		t.Errorf("to = %q", to)
	}
	m := n.dispatched[0]
	if m.Subject != "Message from SyllaTech" || !strings.Contains(m.HTML, "No content.") || m.AppendUnsubscribe {
		t.Errorf("reply message = %+v", m)
	}

	off := NewCampaignService(newRepos(), &mockNotifier{enabled: false}, &inlineQueue{}, 1)
	if _, err := off.Reply(ctx, &domain.Reply{To: "a@b.c"}); !errors.Is(err, domain.ErrMailerUnavailable) {
		t.Errorf("err = %v, want ErrMailerUnavailable", err)
	}
}
