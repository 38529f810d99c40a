package notify

import (
	"context"
	"fmt"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/platform/mailer"
	"github.com/diagnosis/syllatech-api/internal/tasks"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

type Message struct {
	To                string
	ToName            string
	Subject           string
	HTML              string
	AppendUnsubscribe bool
}

// Enqueuer is the part of tasks.Queue the dispatcher needs.
type Enqueuer interface {
	Enqueue(name string, fn tasks.Func) (string, error)
}

type Dispatcher struct {
	sender mailer.Sender
	queue  Enqueuer
	links  Links
	owner  string
}

func NewDispatcher(sender mailer.Sender, queue Enqueuer, links Links, ownerEmail string) *Dispatcher {
	return &Dispatcher{sender: sender, queue: queue, links: links, owner: ownerEmail}
}

func (d *Dispatcher) Enabled() bool { return d.sender.Enabled() }

func (d *Dispatcher) Links() Links { return d.links }

// Send delivers m now, on the caller's goroutine.
func (d *Dispatcher) Send(ctx context.Context, m Message) error {
	html := m.HTML
	if m.AppendUnsubscribe {
		html = InjectUnsubscribe(html, d.links.UnsubscribeURL(m.To))
	}
	if err := d.sender.Send(ctx, mailer.Message{
		To:      m.To,
		ToName:  m.ToName,
		Subject: m.Subject,
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("send to %s: %w", m.To, err)
	}
	return nil
}

// Dispatch queues m for background delivery. Delivery errors are logged by
// the queue; the returned error only reports a failed enqueue.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, m Message) error {
	id, err := d.queue.Enqueue(name, func(ctx context.Context) error {
		return d.Send(ctx, m)
	})
	if err != nil {
		logger.WarnContext(ctx, "email not queued", "task", name, "to", m.To, "error", err)
		return err
	}
	logger.DebugContext(ctx, "email queued", "task", name, "task_id", id)
	return nil
}

// BookingCreated queues the confirmation and the owner alert. It is a no-op
// when no mail provider is configured.
func (d *Dispatcher) BookingCreated(ctx context.Context, b *domain.Booking) {
	if !d.Enabled() {
		return
	}

	if html, err := BookingConfirmation(b); err != nil {
		logger.ErrorContext(ctx, "render booking confirmation", "error", err)
	} else {
		_ = d.Dispatch(ctx, "email.booking_confirmation", Message{
			To: b.Email, ToName: b.Name, Subject: SubjectBookingConfirmed, HTML: html,
		})
	}

	if d.owner == "" {
		return
	}
	if html, err := OwnerNotification(b); err != nil {
		logger.ErrorContext(ctx, "render owner notification", "error", err)
	} else {
		_ = d.Dispatch(ctx, "email.owner_notification", Message{
			To: d.owner, Subject: OwnerSubject(b), HTML: html,
		})
	}
}

// NewsletterWelcome queues the welcome email. No-op without a provider.
func (d *Dispatcher) NewsletterWelcome(ctx context.Context, email string) {
	if !d.Enabled() {
		return
	}
	html, err := Welcome(d.links.SiteURL, d.links.UnsubscribeURL(email))
	if err != nil {
		logger.ErrorContext(ctx, "render welcome", "error", err)
		return
	}
	_ = d.Dispatch(ctx, "email.newsletter_welcome", Message{
		To: email, Subject: SubjectWelcome, HTML: html,
	})
}
