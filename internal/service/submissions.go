package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/utils"
	"github.com/diagnosis/syllatech-api/pkg/events"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

const (
	msgSlotTaken        = "This time slot is no longer available. Please choose another."
	msgAlreadySubscribe = "This email is already subscribed."
)

// SubmissionService handles the public forms.
type SubmissionService interface {
	CreateBooking(ctx context.Context, req *domain.BookingReq) (*domain.Booking, error)
	Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscriber, error)
	CreateContact(ctx context.Context, req *domain.ContactReq) (*domain.ContactSubmission, error)
	Unsubscribe(ctx context.Context, email string) error
	CreateStatus(ctx context.Context, clientName string) (*domain.StatusCheck, error)
	ListStatus(ctx context.Context) ([]domain.StatusCheck, error)
}

type submissionService struct {
	repos    Repos
	notifier Notifier
	bus      events.Publisher
}

func NewSubmissionService(repos Repos, notifier Notifier, bus events.Publisher) SubmissionService {
	return &submissionService{repos: repos, notifier: notifier, bus: bus}
}

func (s *submissionService) CreateBooking(ctx context.Context, req *domain.BookingReq) (*domain.Booking, error) {
	in := *req
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, domain.Validation("Name and email are required")
	}
	in.Date = utils.OptionalString(in.Date)
	in.DateISO = utils.OptionalString(in.DateISO)
	in.Time = utils.OptionalString(in.Time)
	in.Phone = utils.OptionalString(in.Phone)
	in.Business = utils.OptionalString(in.Business)
	in.Message = utils.OptionalString(in.Message)

	if in.DateISO != nil && in.Time != nil {
		taken, err := s.repos.Bookings.SlotTaken(ctx, *in.DateISO, *in.Time)
		if err != nil {
			return nil, fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return nil, domain.Conflict(msgSlotTaken)
		}
	}

	// A concurrent request can still claim the slot between the check and
	// the insert; the unique index turns that into a conflict too.
	b, err := s.repos.Bookings.Create(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	logger.InfoContext(ctx, "booking created", "booking_id", b.ID, "date_iso", domain.Deref(b.DateISO), "time", domain.Deref(b.Time))

	s.notifier.BookingCreated(ctx, b)

	event := events.BookingCreatedEvent{
		BookingID: b.ID,
		Name:      b.Name,
		Email:     b.Email,
		DateISO:   domain.Deref(b.DateISO),
		Time:      domain.Deref(b.Time),
		CreatedAt: b.Timestamp,
	}
	if err := s.bus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", b.ID)
	}
	return b, nil
}

func (s *submissionService) Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.Validation("Email is required")
	}

	exists, err := s.repos.Newsletter.ExistsEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check subscriber: %w", err)
	}
	if exists {
		return nil, domain.Conflict(msgAlreadySubscribe)
	}

	sub, err := s.repos.Newsletter.Create(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	s.notifier.NewsletterWelcome(ctx, sub.Email)

	if err := s.bus.Publish(ctx, events.NewsletterSubscribed, events.NewsletterSubscribedEvent{
		SubscriberID: sub.ID,
		Email:        sub.Email,
		CreatedAt:    sub.Timestamp,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish newsletter event", "error", err)
	}
	return sub, nil
}

func (s *submissionService) CreateContact(ctx context.Context, req *domain.ContactReq) (*domain.ContactSubmission, error) {
	in := *req
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, domain.Validation("Name and email are required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validation("Message is required")
	}
	in.Business = utils.OptionalString(in.Business)

	c, err := s.repos.Contacts.Create(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if err := s.bus.Publish(ctx, events.ContactReceived, events.ContactReceivedEvent{
		SubmissionID: c.ID,
		Name:         c.Name,
		Email:        c.Email,
		CreatedAt:    c.Timestamp,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish contact event", "error", err)
	}
	return c, nil
}

// Unsubscribe records an opt-out. Repeating it is harmless.
func (s *submissionService) Unsubscribe(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if !utils.LooksLikeEmail(email) {
		return domain.Validation("Invalid email")
	}
	if err := s.repos.Unsubscribed.Add(ctx, email); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	logger.InfoContext(ctx, "email unsubscribed")

	if err := s.bus.Publish(ctx, events.EmailUnsubscribed, events.UnsubscribedEvent{Email: email}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish unsubscribe event", "error", err)
	}
	return nil
}

func (s *submissionService) CreateStatus(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, domain.Validation("client_name is required")
	}
	return s.repos.Status.Create(ctx, clientName)
}

func (s *submissionService) ListStatus(ctx context.Context) ([]domain.StatusCheck, error) {
	return s.repos.Status.List(ctx, listLimit)
}
