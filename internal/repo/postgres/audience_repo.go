package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AudienceRepo interface {
	Recipients(ctx context.Context, a domain.Audience) ([]domain.Recipient, error)
	Counts(ctx context.Context) (*domain.AudienceCounts, error)
}

type AudienceRepoImpl struct{ pool *pgxpool.Pool }

func NewAudienceRepo(pool *pgxpool.Pool) *AudienceRepoImpl { return &AudienceRepoImpl{pool: pool} }

const (
	newsletterAudience = `SELECT email, NULL::text AS name FROM newsletter_subscribers`
	bookingsAudience   = `SELECT DISTINCT ON (email) email, name FROM bookings ORDER BY email, timestamp DESC`
	contactAudience    = `SELECT DISTINCT ON (email) email, name FROM contact_submissions ORDER BY email, timestamp DESC`
	allAudience        = `SELECT DISTINCT ON (lower(email)) email, name FROM (
		SELECT email, NULL::text AS name FROM newsletter_subscribers
		UNION ALL SELECT email, name FROM bookings
		UNION ALL SELECT email, name FROM contact_submissions
	) u ORDER BY lower(email), name NULLS LAST`
)

func audienceQuery(a domain.Audience) (string, error) {
	switch a {
	case domain.AudienceNewsletter:
		return newsletterAudience, nil
	case domain.AudienceBookings:
		return bookingsAudience, nil
	case domain.AudienceContact:
		return contactAudience, nil
	case domain.AudienceAll:
		return allAudience, nil
	default:
		return "", fmt.Errorf("unknown audience %q", a)
	}
}

// Recipients lists the audience without applying the unsubscribe list.
func (r *AudienceRepoImpl) Recipients(ctx context.Context, a domain.Audience) ([]domain.Recipient, error) {
	q, err := audienceQuery(a)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Recipient{}
	for rows.Next() {
		var rc domain.Recipient
		if err := rows.Scan(&rc.Email, &rc.Name); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *AudienceRepoImpl) Counts(ctx context.Context) (*domain.AudienceCounts, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM newsletter_subscribers),
		(SELECT COUNT(DISTINCT email) FROM bookings),
		(SELECT COUNT(DISTINCT email) FROM contact_submissions),
		(SELECT COUNT(DISTINCT lower(email)) FROM (
			SELECT email FROM newsletter_subscribers
			UNION ALL SELECT email FROM bookings
			UNION ALL SELECT email FROM contact_submissions) u)`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c domain.AudienceCounts
	if err := r.pool.QueryRow(ctx, q).Scan(&c.Newsletter, &c.Bookings, &c.Contact, &c.All); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ AudienceRepo = (*AudienceRepoImpl)(nil)
