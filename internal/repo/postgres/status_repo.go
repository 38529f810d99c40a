package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatusRepo interface {
	Create(ctx context.Context, clientName string) (*domain.StatusCheck, error)
	List(ctx context.Context, limit int) ([]domain.StatusCheck, error)
}

type StatusRepoImpl struct{ pool *pgxpool.Pool }

func NewStatusRepo(pool *pgxpool.Pool) *StatusRepoImpl { return &StatusRepoImpl{pool: pool} }

func (r *StatusRepoImpl) Create(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	const q = `INSERT INTO status_checks (client_name) VALUES ($1)
		RETURNING id::text, client_name, timestamp`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.StatusCheck
	if err := r.pool.QueryRow(ctx, q, clientName).Scan(&s.ID, &s.ClientName, &s.Timestamp); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatusRepoImpl) List(ctx context.Context, limit int) ([]domain.StatusCheck, error) {
	const q = `SELECT id::text, client_name, timestamp FROM status_checks ORDER BY timestamp DESC LIMIT $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StatusCheck{}
	for rows.Next() {
		var s domain.StatusCheck
		if err := rows.Scan(&s.ID, &s.ClientName, &s.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ StatusRepo = (*StatusRepoImpl)(nil)
