package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepo interface {
	Create(ctx context.Context, in *domain.ContactReq) (*domain.ContactSubmission, error)
	GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error)
	List(ctx context.Context, limit int) ([]domain.ContactSubmission, error)
	Update(ctx context.Context, c *domain.ContactSubmission) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ContactRepoImpl struct{ pool *pgxpool.Pool }

func NewContactRepo(pool *pgxpool.Pool) *ContactRepoImpl { return &ContactRepoImpl{pool: pool} }

const contactCols = `id::text, name, email, business, message, timestamp`

func scanContact(row pgx.Row) (*domain.ContactSubmission, error) {
	var c domain.ContactSubmission
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Business, &c.Message, &c.Timestamp); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepoImpl) Create(ctx context.Context, in *domain.ContactReq) (*domain.ContactSubmission, error) {
	const q = `INSERT INTO contact_submissions (name, email, business, message)
		VALUES ($1,$2,$3,$4) RETURNING ` + contactCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanContact(r.pool.QueryRow(ctx, q, in.Name, in.Email, in.Business, in.Message))
}

func (r *ContactRepoImpl) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	const q = `SELECT ` + contactCols + ` FROM contact_submissions WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanContact(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// List returns submissions newest first. limit <= 0 means no limit.
func (r *ContactRepoImpl) List(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	q := `SELECT ` + contactCols + ` FROM contact_submissions ORDER BY timestamp DESC`
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

	out := []domain.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ContactRepoImpl) Update(ctx context.Context, c *domain.ContactSubmission) (bool, error) {
	const q = `UPDATE contact_submissions SET name=$1, email=$2, business=$3, message=$4 WHERE id=$5`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, c.Name, c.Email, c.Business, c.Message, c.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ContactRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ ContactRepo = (*ContactRepoImpl)(nil)
