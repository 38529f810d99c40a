package postgres

import (
	"errors"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translate maps a unique-constraint violation to domain.ErrConflict with
// the given message; other errors pass through unchanged.
func translate(err error, conflictMsg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.Conflict(conflictMsg)
	}
	return err
}
