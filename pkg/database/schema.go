package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/syllatech-api/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS status_checks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		client_name VARCHAR(255) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS newsletter_email_uniq
		ON newsletter_subscribers (lower(email))`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date VARCHAR(100),
		date_iso VARCHAR(10),
		time VARCHAR(50),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(50),
		business VARCHAR(100),
		message TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_slot_uniq
		ON bookings (date_iso, time)
		WHERE date_iso IS NOT NULL AND date_iso <> '' AND time IS NOT NULL AND time <> ''`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		business VARCHAR(100),
		message TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS unsubscribed_emails (
		email VARCHAR(255) PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		path VARCHAR(500),
		country VARCHAR(100),
		region VARCHAR(200),
		city VARCHAR(200),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_country ON visits(country)`,
	`CREATE TABLE IF NOT EXISTS booking_config (
		key VARCHAR(50) PRIMARY KEY,
		value JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_settings (
		key VARCHAR(50) PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key_hash VARCHAR(100) PRIMARY KEY,
		response TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_idempotency_expires ON idempotency_keys(expires_at)`,
}

// Migrate creates the tables if missing and seeds the default time slots.
// Every statement is idempotent so it runs on each start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	slots, err := json.Marshal(domain.DefaultTimeSlots)
	if err != nil {
		return err
	}
	const seed = `INSERT INTO booking_config (key, value) VALUES ('time_slots', $1::jsonb)
		ON CONFLICT (key) DO NOTHING`
	if _, err := pool.Exec(ctx, seed, string(slots)); err != nil {
		return fmt.Errorf("seed time slots: %w", err)
	}
	return nil
}
