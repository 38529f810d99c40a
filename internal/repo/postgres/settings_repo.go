package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepo stores the booking_config JSONB rows and admin_settings.
type SettingsRepo interface {
	GetBookingConfig(ctx context.Context) (*domain.BookingConfig, error)
	UpdateBookingConfig(ctx context.Context, u *domain.BookingConfigUpdate) error
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

type SettingsRepoImpl struct{ pool *pgxpool.Pool }

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepoImpl { return &SettingsRepoImpl{pool: pool} }

// GetBookingConfig reads all keys; missing or malformed ones fall back to the
// defaults.
func (r *SettingsRepoImpl) GetBookingConfig(ctx context.Context) (*domain.BookingConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT key, value FROM booking_config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cfg := &domain.BookingConfig{
		TimeSlots:         append([]string(nil), domain.DefaultTimeSlots...),
		BlockedDates:      []string{},
		AvailableWeekdays: append([]int(nil), domain.DefaultWeekdays...),
	}
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		switch key {
		case domain.ConfigTimeSlots:
			var v []string
			if json.Unmarshal(raw, &v) == nil && v != nil {
				cfg.TimeSlots = v
			}
		case domain.ConfigBlockedDates:
			var v []string
			if json.Unmarshal(raw, &v) == nil && v != nil {
				cfg.BlockedDates = v
			}
		case domain.ConfigAvailableWeekdays:
			var v []int
			if json.Unmarshal(raw, &v) == nil && v != nil {
				cfg.AvailableWeekdays = v
			}
		}
	}
	return cfg, rows.Err()
}

// UpdateBookingConfig upserts only the provided keys in one transaction.
func (r *SettingsRepoImpl) UpdateBookingConfig(ctx context.Context, u *domain.BookingConfigUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	values := map[string]any{}
	if u.TimeSlots != nil {
		values[domain.ConfigTimeSlots] = u.TimeSlots
	}
	if u.BlockedDates != nil {
		values[domain.ConfigBlockedDates] = u.BlockedDates
	}
	if u.AvailableWeekdays != nil {
		values[domain.ConfigAvailableWeekdays] = u.AvailableWeekdays
	}
	if len(values) == 0 {
		return nil
	}

	const q = `INSERT INTO booking_config (key, value) VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for key, v := range values {
			raw, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, q, key, string(raw)); err != nil {
				return fmt.Errorf("upsert %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SettingsRepoImpl) GetSetting(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM admin_settings WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *SettingsRepoImpl) SetSetting(ctx context.Context, key, value string) error {
	const q = `INSERT INTO admin_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, key, value)
	return err
}

var _ SettingsRepo = (*SettingsRepoImpl)(nil)
