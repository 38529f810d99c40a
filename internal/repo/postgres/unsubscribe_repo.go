package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UnsubscribeRepo interface {
	Add(ctx context.Context, email string) error
	Emails(ctx context.Context) ([]string, error)
	List(ctx context.Context, limit int) ([]domain.UnsubscribedEmail, error)
	Delete(ctx context.Context, email string) (bool, error)
}

type UnsubscribeRepoImpl struct{ pool *pgxpool.Pool }

func NewUnsubscribeRepo(pool *pgxpool.Pool) *UnsubscribeRepoImpl {
	return &UnsubscribeRepoImpl{pool: pool}
}

// Add is idempotent; email must already be lowercased.
func (r *UnsubscribeRepoImpl) Add(ctx context.Context, email string) error {
	const q = `INSERT INTO unsubscribed_emails (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email)
	return err
}

func (r *UnsubscribeRepoImpl) Emails(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT email FROM unsubscribed_emails`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r *UnsubscribeRepoImpl) List(ctx context.Context, limit int) ([]domain.UnsubscribedEmail, error) {
	q := `SELECT email, timestamp FROM unsubscribed_emails ORDER BY timestamp DESC`
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

	out := []domain.UnsubscribedEmail{}
	for rows.Next() {
		var u domain.UnsubscribedEmail
		if err := rows.Scan(&u.Email, &u.Timestamp); err != nil {
			return nil, err
		}
		u.ID = u.Email
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnsubscribeRepoImpl) Delete(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM unsubscribed_emails WHERE email = $1`, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ UnsubscribeRepo = (*UnsubscribeRepoImpl)(nil)
