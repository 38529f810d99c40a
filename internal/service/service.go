// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/notify"
	"github.com/diagnosis/syllatech-api/internal/repo/postgres"
	"github.com/diagnosis/syllatech-api/internal/tasks"
)

// Repos bundles the persistence gateway.
type Repos struct {
	Bookings     postgres.BookingRepo
	Newsletter   postgres.NewsletterRepo
	Contacts     postgres.ContactRepo
	Unsubscribed postgres.UnsubscribeRepo
	Status       postgres.StatusRepo
	Visits       postgres.VisitRepo
	Settings     postgres.SettingsRepo
	Audience     postgres.AudienceRepo
}

// Notifier is implemented by notify.Dispatcher.
type Notifier interface {
	Enabled() bool
	BookingCreated(ctx context.Context, b *domain.Booking)
	NewsletterWelcome(ctx context.Context, email string)
	Send(ctx context.Context, m notify.Message) error
	Dispatch(ctx context.Context, name string, m notify.Message) error
}

type Enqueuer interface {
	Enqueue(name string, fn tasks.Func) (string, error)
}

const listLimit = 1000
