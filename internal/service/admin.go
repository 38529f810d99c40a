package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/export"
	"github.com/diagnosis/syllatech-api/internal/tasks"
	"github.com/diagnosis/syllatech-api/internal/utils"
	"github.com/diagnosis/syllatech-api/pkg/auth"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

const msgNotFound = "Not found"

type AdminService interface {
	Authenticate(ctx context.Context, key string) (bool, error)
	AuthenticateSession(ctx context.Context, token string) (bool, error)
	IssueSession(ctx context.Context) (string, time.Time, error)
	ChangePassword(ctx context.Context, in domain.PasswordChange) error

	UpdateBookingConfig(ctx context.Context, u domain.BookingConfigUpdate) error

	ListSubmissions(ctx context.Context, kind string) (any, error)
	Export(ctx context.Context, kind domain.SubmissionKind) (export.Table, error)
	UpdateNewsletter(ctx context.Context, id, email string) error
	UpdateBooking(ctx context.Context, id string, p domain.BookingPatch) error
	UpdateContact(ctx context.Context, id string, p domain.ContactPatch) error
	Delete(ctx context.Context, kind, id string) error

	TaskStats() tasks.Stats
}

// StatsSource is satisfied by *tasks.Queue.
type StatsSource interface {
	Stats() tasks.Stats
}

type AdminOptions struct {
	EnvSecret  string
	JWTSecret  string
	SessionTTL time.Duration
}

type adminService struct {
	repos Repos
	stats StatsSource
	opts  AdminOptions
}

// NewAdminService signs sessions with opts.JWTSecret. An empty secret is
// replaced by a random per-process key, so sessions end with the process.
func NewAdminService(repos Repos, stats StatsSource, opts AdminOptions) AdminService {
	if opts.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("generate session key: %v", err))
		}
		opts.JWTSecret = hex.EncodeToString(buf)
		logger.Warn("JWT_SECRET not set, admin sessions will not survive a restart")
	}
	return &adminService{repos: repos, stats: stats, opts: opts}
}

// credential returns the secret currently gating the console: the stored
// value when one has been set through the console, else the environment one.
func (s *adminService) credential(ctx context.Context) (string, error) {
	stored, ok, err := s.repos.Settings.GetSetting(ctx, domain.SettingAdminSecret)
	if err != nil {
		return "", fmt.Errorf("load admin secret: %w", err)
	}
	if stored = strings.TrimSpace(stored); ok && stored != "" {
		return stored, nil
	}
	return s.opts.EnvSecret, nil
}

// Authenticate checks key against the current credential.
func (s *adminService) Authenticate(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}

	cred, err := s.credential(ctx)
	if err != nil {
		return false, err
	}
	if cred == "" {
		return false, nil
	}
	if strings.HasPrefix(cred, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(key, cred)
		if err != nil {
			return false, fmt.Errorf("compare admin secret: %w", err)
		}
		return match, nil
	}
	// env value, or plaintext rows written before hashing was introduced
	return constantEqual(key, cred), nil
}

func constantEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// sessionKey ties session signatures to the current credential; rotating the
// secret invalidates every outstanding session.
func (s *adminService) sessionKey(ctx context.Context) (string, error) {
	cred, err := s.credential(ctx)
	if err != nil {
		return "", err
	}
	if cred == "" {
		return "", nil
	}
	sum := sha256.Sum256([]byte(cred))
	return s.opts.JWTSecret + "." + hex.EncodeToString(sum[:]), nil
}

func (s *adminService) AuthenticateSession(ctx context.Context, token string) (bool, error) {
	key, err := s.sessionKey(ctx)
	if err != nil || key == "" {
		return false, err
	}
	return auth.IsAdmin(token, key), nil
}

func (s *adminService) IssueSession(ctx context.Context) (string, time.Time, error) {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	if key == "" {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	token, exp, err := auth.NewAdminSession(key, s.opts.SessionTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	logger.InfoContext(ctx, "admin session issued", "expires_at", exp)
	return token, exp, nil
}

func (s *adminService) ChangePassword(ctx context.Context, in domain.PasswordChange) error {
	ok, err := s.Authenticate(ctx, in.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Validation("Current password is incorrect")
	}

	next := strings.TrimSpace(in.NewPassword)
	if len(next) < domain.MinAdminSecretLen {
		return domain.Validation("New password must be at least 4 characters")
	}

	hash, err := argon2id.CreateHash(next, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash admin secret: %w", err)
	}
	if err := s.repos.Settings.SetSetting(ctx, domain.SettingAdminSecret, hash); err != nil {
		return fmt.Errorf("store admin secret: %w", err)
	}
	logger.InfoContext(ctx, "admin secret rotated")
	return nil
}

func (s *adminService) UpdateBookingConfig(ctx context.Context, u domain.BookingConfigUpdate) error {
	if u.AvailableWeekdays != nil {
		u.AvailableWeekdays = domain.ValidWeekdays(u.AvailableWeekdays)
	}
	if err := s.repos.Settings.UpdateBookingConfig(ctx, &u); err != nil {
		return fmt.Errorf("update booking config: %w", err)
	}
	return nil
}

func (s *adminService) ListSubmissions(ctx context.Context, kind string) (any, error) {
	k, ok := domain.ParseSubmissionKind(kind)
	if !ok {
		return nil, domain.Validation("Invalid type")
	}
	switch k {
	case domain.KindNewsletter:
		return s.repos.Newsletter.List(ctx, listLimit)
	case domain.KindBookings:
		return s.repos.Bookings.List(ctx, listLimit)
	case domain.KindContact:
		return s.repos.Contacts.List(ctx, listLimit)
	default:
		return s.repos.Unsubscribed.List(ctx, listLimit)
	}
}

// Export returns every row of kind, newest first.
func (s *adminService) Export(ctx context.Context, kind domain.SubmissionKind) (export.Table, error) {
	switch kind {
	case domain.KindNewsletter:
		subs, err := s.repos.Newsletter.List(ctx, 0)
		if err != nil {
			return export.Table{}, err
		}
		return export.Newsletter(subs), nil
	case domain.KindBookings:
		bs, err := s.repos.Bookings.List(ctx, 0)
		if err != nil {
			return export.Table{}, err
		}
		return export.Bookings(bs), nil
	case domain.KindContact:
		cs, err := s.repos.Contacts.List(ctx, 0)
		if err != nil {
			return export.Table{}, err
		}
		return export.Contacts(cs), nil
	default:
		return export.Table{}, domain.Validation("Invalid type")
	}
}

// validID rejects ids that cannot name a row; Postgres would otherwise
// fail the uuid cast with a 500.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NotFound(msgNotFound)
	}
	return nil
}

func (s *adminService) UpdateNewsletter(ctx context.Context, id, email string) error {
	if err := validID(id); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Validation("Email is required")
	}
	ok, err := s.repos.Newsletter.UpdateEmail(ctx, id, email)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	if !ok {
		return domain.NotFound(msgNotFound)
	}
	return nil
}

func (s *adminService) UpdateBooking(ctx context.Context, id string, p domain.BookingPatch) error {
	if err := validID(id); err != nil {
		return err
	}
	b, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return domain.NotFound(msgNotFound)
	}

	p.Apply(b)
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Email) == "" {
		return domain.Validation("Name and email are required")
	}

	ok, err := s.repos.Bookings.Update(ctx, b)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if !ok {
		return domain.NotFound(msgNotFound)
	}
	return nil
}

func (s *adminService) UpdateContact(ctx context.Context, id string, p domain.ContactPatch) error {
	if err := validID(id); err != nil {
		return err
	}
	c, err := s.repos.Contacts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load contact: %w", err)
	}
	if c == nil {
		return domain.NotFound(msgNotFound)
	}

	p.Apply(c)
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return domain.Validation("Name and email are required")
	}
	if strings.TrimSpace(c.Message) == "" {
		return domain.Validation("Message is required")
	}

	ok, err := s.repos.Contacts.Update(ctx, c)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if !ok {
		return domain.NotFound(msgNotFound)
	}
	return nil
}

// Delete removes one record. For the unsubscribed kind the id is the email
// address and deleting it re-subscribes that address.
func (s *adminService) Delete(ctx context.Context, kind, id string) error {
	k, ok := domain.ParseSubmissionKind(kind)
	if !ok {
		return domain.NotFound(msgNotFound)
	}

	var deleted bool
	var err error
	switch k {
	case domain.KindUnsubscribed:
		deleted, err = s.repos.Unsubscribed.Delete(ctx, utils.NormalizeEmail(id))
	default:
		if err := validID(id); err != nil {
			return err
		}
		switch k {
		case domain.KindNewsletter:
			deleted, err = s.repos.Newsletter.Delete(ctx, id)
		case domain.KindBookings:
			deleted, err = s.repos.Bookings.Delete(ctx, id)
		case domain.KindContact:
			deleted, err = s.repos.Contacts.Delete(ctx, id)
		}
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", k, err)
	}
	if !deleted {
		return domain.NotFound(msgNotFound)
	}
	logger.InfoContext(ctx, "submission deleted", "kind", k, "id", id)
	return nil
}

func (s *adminService) TaskStats() tasks.Stats {
	return s.stats.Stats()
}
