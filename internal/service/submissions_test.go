package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/pkg/events"
)

func TestCreateBooking(t *testing.T) {
	tests := []struct {
		name     string
		existing []domain.Booking
		req      domain.BookingReq
		wantErr  error
	}{
		{
			name: "free slot",
			req:  domain.BookingReq{Name: "Ana", Email: "ana@example.com", DateISO: strPtr("2026-03-02"), Time: strPtr("09:00 AM")},
		},
		{
			name:     "slot taken",
			existing: []domain.Booking{{DateISO: strPtr("2026-03-02"), Time: strPtr("09:00 AM")}},
			req:      domain.BookingReq{Name: "Bo", Email: "bo@example.com", DateISO: strPtr("2026-03-02"), Time: strPtr("09:00 AM")},
			wantErr:  domain.ErrConflict,
		},
		{
			name:     "call-me request without slot skips the check",
			existing: []domain.Booking{{DateISO: strPtr("2026-03-02")}},
			req:      domain.BookingReq{Name: "Cy", Email: "cy@example.com", DateISO: strPtr("2026-03-02")},
		},
		{
			name:    "blank name",
			req:     domain.BookingReq{Name: "  ", Email: "x@example.com"},
			wantErr: domain.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newRepos()
			repos.Bookings = &mockBookingRepo{bookings: tt.existing}
			n := &mockNotifier{enabled: true}
			bus := &mockBus{}
			svc := NewSubmissionService(repos, n, bus)

			b, err := svc.CreateBooking(context.Background(), &tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(n.bookings) != 0 || len(bus.subjects) != 0 {
					t.Error("side effects ran for a rejected booking")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBooking: %v", err)
			}
			if b.ID == "" {
				t.Error("booking has no id")
			}
			if len(n.bookings) != 1 {
				t.Errorf("notifier called %d times, want 1", len(n.bookings))
			}
			if !reflect.DeepEqual(bus.subjects, []string{events.BookingCreated}) {
				t.Errorf("events = %v", bus.subjects)
			}
		})
	}
}

func TestCreateBooking_StorageConflictPassesThrough(t *testing.T) {
	repos := newRepos()
	repos.Bookings = &mockBookingRepo{createErr: domain.Conflict("This time slot is no longer available. Please choose another.")}
	svc := NewSubmissionService(repos, &mockNotifier{}, &mockBus{})

	_, err := svc.CreateBooking(context.Background(), &domain.BookingReq{
		Name: "Ana", Email: "ana@example.com", DateISO: strPtr("2026-03-02"), Time: strPtr("09:00 AM"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCreateBooking_BlankOptionalFieldsStoredAsNull(t *testing.T) {
	repos := newRepos()
	svc := NewSubmissionService(repos, &mockNotifier{}, &mockBus{})

	b, err := svc.CreateBooking(context.Background(), &domain.BookingReq{
		Name: "Ana", Email: "ana@example.com", Time: strPtr(" "), Phone: strPtr(""),
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Time != nil || b.Phone != nil {
		t.Errorf("blank fields stored: time=%v phone=%v", b.Time, b.Phone)
	}
}

func TestSubscribe(t *testing.T) {
	repos := newRepos()
	n := &mockNotifier{enabled: true}
	svc := NewSubmissionService(repos, n, &mockBus{})
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank email err = %v, want ErrValidation", err)
	}

	sub, err := svc.Subscribe(ctx, " Ana@Example.com ")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.Email != "Ana@Example.com" {
		t.Errorf("stored email = %q, want trimmed original case", sub.Email)
	}
	if !reflect.DeepEqual(n.welcomes, []string{"Ana@Example.com"}) {
		t.Errorf("welcomes = %v", n.welcomes)
	}

	if _, err := svc.Subscribe(ctx, "ana@example.COM"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate err = %v, want ErrConflict", err)
	}
}

func TestCreateContact(t *testing.T) {
	repos := newRepos()
	bus := &mockBus{}
	n := &mockNotifier{enabled: true}
	svc := NewSubmissionService(repos, n, bus)
	ctx := context.Background()

	if _, err := svc.CreateContact(ctx, &domain.ContactReq{Name: "Ana", Email: "a@b.c", Message: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank message err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateContact(ctx, &domain.ContactReq{Name: "Ana", Email: "a@b.c", Message: "hi"}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if len(n.sent)+len(n.dispatched)+len(n.bookings) != 0 {
		t.Error("contact submissions should not send email")
	}
	if !reflect.DeepEqual(bus.subjects, []string{events.ContactReceived}) {
		t.Errorf("events = %v", bus.subjects)
	}
}

func TestUnsubscribe(t *testing.T) {
	unsub := &mockUnsubscribeRepo{}
	repos := newRepos()
	repos.Unsubscribed = unsub
	svc := NewSubmissionService(repos, &mockNotifier{}, &mockBus{})
	ctx := context.Background()

	if err := svc.Unsubscribe(ctx, "not-an-email"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Unsubscribe(ctx, " Ana@Example.com"); err != nil {
			t.Fatalf("Unsubscribe: %v", err)
		}
	}
	if !reflect.DeepEqual(unsub.emails, []string{"ana@example.com"}) {
		t.Errorf("unsubscribed = %v", unsub.emails)
	}
}

func TestStatusChecks(t *testing.T) {
	svc := NewSubmissionService(newRepos(), &mockNotifier{}, &mockBus{})
	ctx := context.Background()

	if _, err := svc.CreateStatus(ctx, " "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name err = %v, want ErrValidation", err)
	}
	sc, err := svc.CreateStatus(ctx, " probe ")
	if err != nil {
		t.Fatalf("CreateStatus: %v", err)
	}
	if sc.ClientName != "probe" {
		t.Errorf("client name = %q", sc.ClientName)
	}
	list, err := svc.ListStatus(ctx)
	if err != nil {
		t.Fatalf("ListStatus: %v", err)
	}
	if len(list) != 1 || list[0].ID != sc.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestAvailability(t *testing.T) {
	repos := newRepos()
	settings := newMockSettings()
	settings.cfg.BlockedDates = []string{"2026-12-25"}
	repos.Settings = settings
	repos.Bookings = &mockBookingRepo{bookings: []domain.Booking{
		{DateISO: strPtr("2026-03-02"), Time: strPtr("09:00 AM")},
		{DateISO: strPtr("2026-03-02"), Time: strPtr("")},
		{DateISO: strPtr("2026-03-03"), Time: strPtr("10:00 AM")},
	}}
	svc := NewAvailabilityService(repos.Settings, repos.Bookings)
	ctx := context.Background()

	got, err := svc.Taken(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("Taken: %v", err)
	}
	if !reflect.DeepEqual(got.Taken, []string{"09:00 AM"}) {
		t.Errorf("taken = %v", got.Taken)
	}

	got, err = svc.Taken(ctx, "2026-12-25")
	if err != nil {
		t.Fatalf("Taken: %v", err)
	}
	if len(got.Taken) != len(domain.DefaultTimeSlots) {
		t.Errorf("blocked date taken = %v, want every slot", got.Taken)
	}

	got, _ = svc.Taken(ctx, "2026-01-01")
	if got.Taken == nil || len(got.Taken) != 0 {
		t.Errorf("empty day taken = %#v, want empty non-nil", got.Taken)
	}
}

func TestVisitTracker(t *testing.T) {
	visits := &mockVisitRepo{}
	q := &inlineQueue{}
	tr := NewVisitTracker(visits, fakeLocator{geo: domain.Geo{Country: "Portugal", Region: "Lisbon"}}, q)

	tr.Track(context.Background(), "   ", "8.8.8.8")

	if len(visits.visits) != 1 {
		t.Fatalf("visits = %d, want 1", len(visits.visits))
	}
	v := visits.visits[0]
	if v.Path != "/" || domain.Deref(v.Country) != "Portugal" || domain.Deref(v.Region) != "Lisbon" || v.City != nil {
		t.Errorf("visit = %+v", v)
	}
}

func TestVisitTracker_QueueFullIsSwallowed(t *testing.T) {
	visits := &mockVisitRepo{}
	tr := NewVisitTracker(visits, fakeLocator{}, &inlineQueue{err: errors.New("task queue full")})
	tr.Track(context.Background(), "/", "")
	if len(visits.visits) != 0 {
		t.Error("visit should have been dropped")
	}
}

func TestNormalizePath(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"  /pricing ", "/pricing"},
		{string(long), string(long[:500])},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q...) len %d, want len %d", tt.in[:min(len(tt.in), 10)], len(got), len(tt.want))
		}
	}
}
