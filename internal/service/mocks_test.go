package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/notify"
	"github.com/diagnosis/syllatech-api/internal/tasks"
)

func strPtr(s string) *string { return &s }

const (
	id1 = "11111111-1111-1111-1111-111111111111"
	id2 = "22222222-2222-2222-2222-222222222222"
)

type mockBookingRepo struct {
	bookings  []domain.Booking
	createErr error
	next      int
}

func (m *mockBookingRepo) Create(_ context.Context, in *domain.BookingReq) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.next++
	b := domain.Booking{
		ID: fmt.Sprintf("00000000-0000-0000-0000-%012d", m.next), Date: in.Date, DateISO: in.DateISO, Time: in.Time,
		Name: in.Name, Email: in.Email, Phone: in.Phone, Business: in.Business, Message: in.Message,
		Timestamp: time.Now(),
	}
	m.bookings = append(m.bookings, b)
	return &b, nil
}

func (m *mockBookingRepo) SlotTaken(_ context.Context, dateISO, slot string) (bool, error) {
	for _, b := range m.bookings {
		if domain.Deref(b.DateISO) == dateISO && domain.Deref(b.Time) == slot {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingRepo) TakenTimes(_ context.Context, dateISO string) ([]string, error) {
	out := []string{}
	for _, b := range m.bookings {
		if domain.Deref(b.DateISO) == dateISO && domain.Deref(b.Time) != "" {
			out = append(out, *b.Time)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) List(context.Context, int) ([]domain.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingRepo) Update(_ context.Context, b *domain.Booking) (bool, error) {
	for i := range m.bookings {
		if m.bookings[i].ID == b.ID {
			m.bookings[i] = *b
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockNewsletterRepo struct {
	subs []domain.NewsletterSubscriber
}

func (m *mockNewsletterRepo) ExistsEmail(_ context.Context, email string) (bool, error) {
	for _, s := range m.subs {
		if strings.EqualFold(s.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNewsletterRepo) Create(_ context.Context, email string) (*domain.NewsletterSubscriber, error) {
	s := domain.NewsletterSubscriber{ID: id1, Email: email, Timestamp: time.Now()}
	m.subs = append(m.subs, s)
	return &s, nil
}

func (m *mockNewsletterRepo) List(context.Context, int) ([]domain.NewsletterSubscriber, error) {
	return m.subs, nil
}

func (m *mockNewsletterRepo) UpdateEmail(_ context.Context, id, email string) (bool, error) {
	for i := range m.subs {
		if m.subs[i].ID == id {
			m.subs[i].Email = email
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNewsletterRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.subs {
		if m.subs[i].ID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockContactRepo struct {
	items []domain.ContactSubmission
}

func (m *mockContactRepo) Create(_ context.Context, in *domain.ContactReq) (*domain.ContactSubmission, error) {
	c := domain.ContactSubmission{ID: id1, Name: in.Name, Email: in.Email, Business: in.Business, Message: in.Message}
	m.items = append(m.items, c)
	return &c, nil
}

func (m *mockContactRepo) GetByID(_ context.Context, id string) (*domain.ContactSubmission, error) {
	for _, c := range m.items {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockContactRepo) List(context.Context, int) ([]domain.ContactSubmission, error) {
	return m.items, nil
}

func (m *mockContactRepo) Update(_ context.Context, c *domain.ContactSubmission) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == c.ID {
			m.items[i] = *c
			return true, nil
		}
	}
	return false, nil
}

func (m *mockContactRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockUnsubscribeRepo struct {
	emails []string
}

func (m *mockUnsubscribeRepo) Add(_ context.Context, email string) error {
	for _, e := range m.emails {
		if e == email {
			return nil
		}
	}
	m.emails = append(m.emails, email)
	return nil
}

func (m *mockUnsubscribeRepo) Emails(context.Context) ([]string, error) { return m.emails, nil }

func (m *mockUnsubscribeRepo) List(context.Context, int) ([]domain.UnsubscribedEmail, error) {
	out := []domain.UnsubscribedEmail{}
	for _, e := range m.emails {
		out = append(out, domain.UnsubscribedEmail{ID: e, Email: e})
	}
	return out, nil
}

func (m *mockUnsubscribeRepo) Delete(_ context.Context, email string) (bool, error) {
	for i, e := range m.emails {
		if e == email {
			m.emails = append(m.emails[:i], m.emails[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockSettingsRepo struct {
	cfg      domain.BookingConfig
	settings map[string]string
	lastCfg  *domain.BookingConfigUpdate
}

func newMockSettings() *mockSettingsRepo {
	return &mockSettingsRepo{
		cfg: domain.BookingConfig{
			TimeSlots:         domain.DefaultTimeSlots,
			BlockedDates:      []string{},
			AvailableWeekdays: domain.DefaultWeekdays,
		},
		settings: map[string]string{},
	}
}

func (m *mockSettingsRepo) GetBookingConfig(context.Context) (*domain.BookingConfig, error) {
	cp := m.cfg
	return &cp, nil
}

func (m *mockSettingsRepo) UpdateBookingConfig(_ context.Context, u *domain.BookingConfigUpdate) error {
	m.lastCfg = u
	if u.TimeSlots != nil {
		m.cfg.TimeSlots = u.TimeSlots
	}
	if u.BlockedDates != nil {
		m.cfg.BlockedDates = u.BlockedDates
	}
	if u.AvailableWeekdays != nil {
		m.cfg.AvailableWeekdays = u.AvailableWeekdays
	}
	return nil
}

func (m *mockSettingsRepo) GetSetting(_ context.Context, key string) (string, bool, error) {
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *mockSettingsRepo) SetSetting(_ context.Context, key, value string) error {
	m.settings[key] = value
	return nil
}

type mockAudienceRepo struct {
	recipients map[domain.Audience][]domain.Recipient
}

func (m *mockAudienceRepo) Recipients(_ context.Context, a domain.Audience) ([]domain.Recipient, error) {
	return m.recipients[a], nil
}

func (m *mockAudienceRepo) Counts(context.Context) (*domain.AudienceCounts, error) {
	return &domain.AudienceCounts{
		Newsletter: int64(len(m.recipients[domain.AudienceNewsletter])),
		Bookings:   int64(len(m.recipients[domain.AudienceBookings])),
		Contact:    int64(len(m.recipients[domain.AudienceContact])),
		All:        int64(len(m.recipients[domain.AudienceAll])),
	}, nil
}

type mockVisitRepo struct {
	mu     sync.Mutex
	visits []domain.Visit
}

func (m *mockVisitRepo) Insert(_ context.Context, v *domain.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits = append(m.visits, *v)
	return nil
}

func (m *mockVisitRepo) Analytics(context.Context) (*domain.Analytics, error) {
	return &domain.Analytics{TotalVisits: int64(len(m.visits))}, nil
}

type mockStatusRepo struct {
	checks []domain.StatusCheck
}

func (m *mockStatusRepo) Create(_ context.Context, clientName string) (*domain.StatusCheck, error) {
	sc := domain.StatusCheck{ID: fmt.Sprintf("status-%d", len(m.checks)+1), ClientName: clientName, Timestamp: time.Now()}
	m.checks = append(m.checks, sc)
	return &sc, nil
}

func (m *mockStatusRepo) List(context.Context, int) ([]domain.StatusCheck, error) {
	return m.checks, nil
}

type mockNotifier struct {
	mu         sync.Mutex
	enabled    bool
	bookings   []*domain.Booking
	welcomes   []string
	sent       []notify.Message
	dispatched []notify.Message
	sendErr    map[string]error
}

func (m *mockNotifier) Enabled() bool { return m.enabled }

func (m *mockNotifier) BookingCreated(_ context.Context, b *domain.Booking) {
	m.bookings = append(m.bookings, b)
}

func (m *mockNotifier) NewsletterWelcome(_ context.Context, email string) {
	m.welcomes = append(m.welcomes, email)
}

func (m *mockNotifier) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.sendErr[msg.To]
}

func (m *mockNotifier) Dispatch(_ context.Context, _ string, msg notify.Message) error {
	m.dispatched = append(m.dispatched, msg)
	return nil
}

type mockBus struct {
	subjects []string
}

func (m *mockBus) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockBus) Close() error { return nil }

// inlineQueue runs each task immediately on the caller's goroutine.
type inlineQueue struct {
	names []string
	err   error
}

func (q *inlineQueue) Enqueue(name string, fn tasks.Func) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.names = append(q.names, name)
	return "task", fn(context.Background())
}

type fakeLocator struct {
	geo domain.Geo
}

func (f fakeLocator) Lookup(context.Context, string) domain.Geo { return f.geo }

type fixedStats struct{ s tasks.Stats }

func (f fixedStats) Stats() tasks.Stats { return f.s }

func newRepos() Repos {
	return Repos{
		Bookings:     &mockBookingRepo{},
		Newsletter:   &mockNewsletterRepo{},
		Contacts:     &mockContactRepo{},
		Unsubscribed: &mockUnsubscribeRepo{},
		Status:       &mockStatusRepo{},
		Visits:       &mockVisitRepo{},
		Settings:     newMockSettings(),
		Audience:     &mockAudienceRepo{recipients: map[domain.Audience][]domain.Recipient{}},
	}
}
