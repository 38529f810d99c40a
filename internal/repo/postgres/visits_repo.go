package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VisitRepo interface {
	Insert(ctx context.Context, v *domain.Visit) error
	Analytics(ctx context.Context) (*domain.Analytics, error)
}

type VisitRepoImpl struct{ pool *pgxpool.Pool }

func NewVisitRepo(pool *pgxpool.Pool) *VisitRepoImpl { return &VisitRepoImpl{pool: pool} }

func (r *VisitRepoImpl) Insert(ctx context.Context, v *domain.Visit) error {
	const q = `INSERT INTO visits (path, country, region, city) VALUES ($1,$2,$3,$4)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, v.Path, v.Country, v.Region, v.City)
	return err
}

// Analytics runs the dashboard aggregates. Days are UTC.
func (r *VisitRepoImpl) Analytics(ctx context.Context) (*domain.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a := &domain.Analytics{
		ByCountry:    []domain.CountryCount{},
		ByRegion:     []domain.RegionCount{},
		VisitsByDate: []domain.DateCount{},
		Recent:       []domain.Visit{},
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&a.TotalVisits); err != nil {
		return nil, err
	}
	const today = `SELECT COUNT(*) FROM visits WHERE (timestamp AT TIME ZONE 'UTC')::date = (NOW() AT TIME ZONE 'UTC')::date`
	if err := r.pool.QueryRow(ctx, today).Scan(&a.VisitsToday); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT country, COUNT(*) AS c
		FROM visits WHERE country IS NOT NULL AND country <> ''
		GROUP BY country ORDER BY c DESC LIMIT 15`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c domain.CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		a.ByCountry = append(a.ByCountry, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT country, region, COUNT(*) AS c
		FROM visits WHERE country IS NOT NULL AND region IS NOT NULL AND region <> ''
		GROUP BY country, region ORDER BY c DESC LIMIT 15`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c domain.RegionCount
		if err := rows.Scan(&c.Country, &c.Region, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		a.ByRegion = append(a.ByRegion, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT to_char((timestamp AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS d, COUNT(*)
		FROM visits WHERE timestamp >= (CURRENT_DATE - INTERVAL '14 days')
		GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		a.VisitsByDate = append(a.VisitsByDate, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id::text, COALESCE(path, ''), country, region, city, timestamp
		FROM visits ORDER BY timestamp DESC LIMIT 20`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.Visit
		if err := rows.Scan(&v.ID, &v.Path, &v.Country, &v.Region, &v.City, &v.Timestamp); err != nil {
			return nil, err
		}
		a.Recent = append(a.Recent, v)
	}
	return a, rows.Err()
}

var _ VisitRepo = (*VisitRepoImpl)(nil)
