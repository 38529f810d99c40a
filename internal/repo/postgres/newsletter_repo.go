package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewsletterRepo interface {
	ExistsEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email string) (*domain.NewsletterSubscriber, error)
	List(ctx context.Context, limit int) ([]domain.NewsletterSubscriber, error)
	UpdateEmail(ctx context.Context, id, email string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type NewsletterRepoImpl struct{ pool *pgxpool.Pool }

func NewNewsletterRepo(pool *pgxpool.Pool) *NewsletterRepoImpl {
	return &NewsletterRepoImpl{pool: pool}
}

const alreadySubscribed = "This email is already subscribed."

func (r *NewsletterRepoImpl) ExistsEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM newsletter_subscribers WHERE lower(email) = lower($1))`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, email).Scan(&exists)
	return exists, err
}

func (r *NewsletterRepoImpl) Create(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	const q = `INSERT INTO newsletter_subscribers (email) VALUES ($1)
		RETURNING id::text, email, timestamp`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.NewsletterSubscriber
	if err := r.pool.QueryRow(ctx, q, email).Scan(&s.ID, &s.Email, &s.Timestamp); err != nil {
		return nil, translate(err, alreadySubscribed)
	}
	return &s, nil
}

// List returns subscribers newest first. limit <= 0 means no limit.
func (r *NewsletterRepoImpl) List(ctx context.Context, limit int) ([]domain.NewsletterSubscriber, error) {
	q := `SELECT id::text, email, timestamp FROM newsletter_subscribers ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []domain.NewsletterSubscriber{}
	for rows.Next() {
		var s domain.NewsletterSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Timestamp); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *NewsletterRepoImpl) UpdateEmail(ctx context.Context, id, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `UPDATE newsletter_subscribers SET email = $1 WHERE id = $2`, email, id)
	if err != nil {
		return false, translate(err, alreadySubscribed)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NewsletterRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM newsletter_subscribers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ NewsletterRepo = (*NewsletterRepoImpl)(nil)
