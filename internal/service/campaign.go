package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/notify"
	"github.com/diagnosis/syllatech-api/internal/utils"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

var audienceLabels = []struct {
	id    domain.Audience
	label string
}{
	{domain.AudienceNewsletter, "Newsletter Subscribers"},
	{domain.AudienceBookings, "Past Bookings"},
	{domain.AudienceContact, "Contact Form Submissions"},
	{domain.AudienceAll, "All (Unique Emails)"},
}

type CampaignService interface {
	Audiences(ctx context.Context) ([]domain.AudienceInfo, error)
	Recipients(ctx context.Context, audience string) ([]domain.Recipient, error)
	Send(ctx context.Context, c *domain.Campaign) (*domain.CampaignResult, error)
	Reply(ctx context.Context, r *domain.Reply) (string, error)
}

type campaignService struct {
	repos       Repos
	notifier    Notifier
	queue       Enqueuer
	concurrency int
}

func NewCampaignService(repos Repos, notifier Notifier, queue Enqueuer, concurrency int) CampaignService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &campaignService{repos: repos, notifier: notifier, queue: queue, concurrency: concurrency}
}

func (s *campaignService) Audiences(ctx context.Context) ([]domain.AudienceInfo, error) {
	c, err := s.repos.Audience.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count audiences: %w", err)
	}
	counts := map[domain.Audience]int64{
		domain.AudienceNewsletter: c.Newsletter,
		domain.AudienceBookings:   c.Bookings,
		domain.AudienceContact:    c.Contact,
		domain.AudienceAll:        c.All,
	}
	out := make([]domain.AudienceInfo, 0, len(audienceLabels))
	for _, a := range audienceLabels {
		out = append(out, domain.AudienceInfo{ID: a.id, Label: a.label, Count: counts[a.id]})
	}
	return out, nil
}

// Recipients lists the audience minus unsubscribed and blank addresses.
func (s *campaignService) Recipients(ctx context.Context, audience string) ([]domain.Recipient, error) {
	a, ok := domain.ParseAudience(audience)
	if !ok {
		return nil, domain.Validation("Invalid audience")
	}

	all, err := s.repos.Audience.Recipients(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("load audience: %w", err)
	}
	unsub, err := s.repos.Unsubscribed.Emails(ctx)
	if err != nil {
		return nil, fmt.Errorf("load unsubscribed: %w", err)
	}
	return filterRecipients(all, unsub), nil
}

func filterRecipients(all []domain.Recipient, unsubscribed []string) []domain.Recipient {
	skip := make(map[string]struct{}, len(unsubscribed))
	for _, e := range unsubscribed {
		skip[utils.NormalizeEmail(e)] = struct{}{}
	}

	out := make([]domain.Recipient, 0, len(all))
	for _, r := range all {
		norm := utils.NormalizeEmail(r.Email)
		if norm == "" {
			continue
		}
		if _, gone := skip[norm]; gone {
			continue
		}
		out = append(out, domain.Recipient{Email: r.Email, Name: utils.OptionalString(r.Name)})
	}
	return out
}

// selectRecipients narrows the audience to the requested subset. An empty
// subset means the whole audience.
func selectRecipients(audience []domain.Recipient, subset []string) ([]string, error) {
	emails := make([]string, 0, len(audience))
	for _, r := range audience {
		emails = append(emails, r.Email)
	}
	if len(subset) == 0 {
		if len(emails) == 0 {
			return nil, domain.Validation("No recipients in selected audience")
		}
		return emails, nil
	}

	valid := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		valid[e] = struct{}{}
	}
	picked := make([]string, 0, len(subset))
	for _, e := range subset {
		e = strings.TrimSpace(e)
		if _, ok := valid[e]; ok {
			picked = append(picked, e)
		}
	}
	if len(picked) == 0 {
		return nil, domain.Validation("No valid recipients in selection")
	}
	return picked, nil
}

// Send resolves the recipients now and delivers in the background. Each
// message carries the recipient's unsubscribe link; failures for one
// recipient do not stop the rest.
func (s *campaignService) Send(ctx context.Context, c *domain.Campaign) (*domain.CampaignResult, error) {
	if !s.notifier.Enabled() {
		return nil, domain.ErrMailerUnavailable
	}

	audience, err := s.Recipients(ctx, c.Audience)
	if err != nil {
		return nil, err
	}
	to, err := selectRecipients(audience, c.Recipients)
	if err != nil {
		return nil, err
	}

	body, err := notify.RenderBody(c.HTMLBody)
	if err != nil {
		return nil, domain.Validation("Could not render email body")
	}
	subject := c.Subject

	_, err = s.queue.Enqueue("email.campaign", func(ctx context.Context) error {
		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for _, addr := range to {
			addr := addr
			g.Go(func() error {
				err := s.notifier.Send(ctx, notify.Message{
					To: addr, Subject: subject, HTML: body, AppendUnsubscribe: true,
				})
				if err != nil {
					logger.ErrorContext(ctx, "campaign email failed", "to", addr, "error", err)
				}
				return nil
			})
		}
		_ = g.Wait()
		logger.InfoContext(ctx, "campaign finished", "audience", c.Audience, "email_type", c.EmailType, "recipients", len(to))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("queue campaign: %w", err)
	}

	return &domain.CampaignResult{
		Status:     "sending",
		Recipients: len(to),
		Message:    fmt.Sprintf("Email queued for %d recipient(s)", len(to)),
	}, nil
}

// Reply sends a one-to-one message without an unsubscribe link and returns
// the normalized recipient.
func (s *campaignService) Reply(ctx context.Context, r *domain.Reply) (string, error) {
	to := utils.NormalizeEmail(r.To)
	if !utils.LooksLikeEmail(to) {
		return "", domain.Validation("Invalid recipient email")
	}
	if !s.notifier.Enabled() {
		return "", domain.ErrMailerUnavailable
	}

	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		subject = notify.SubjectReplyDefault
	}
	raw := strings.TrimSpace(r.HTMLBody)
	if raw == "" {
		raw = "No content."
	}
	body, err := notify.RenderBody(raw)
	if err != nil {
		return "", domain.Validation("Could not render email body")
	}

	if err := s.notifier.Dispatch(ctx, "email.reply", notify.Message{To: to, Subject: subject, HTML: body}); err != nil {
		return "", fmt.Errorf("queue reply: %w", err)
	}
	return to, nil
}
