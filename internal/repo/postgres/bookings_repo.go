package postgres

import (
	"context"
	"time"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepo interface {
	Create(ctx context.Context, in *domain.BookingReq) (*domain.Booking, error)
	SlotTaken(ctx context.Context, dateISO, slot string) (bool, error)
	TakenTimes(ctx context.Context, dateISO string) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, limit int) ([]domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type BookingRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepoImpl { return &BookingRepoImpl{pool: pool} }

const bookingCols = `id::text, date, date_iso, time, name, email, phone, business, message, timestamp`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.Date, &b.DateISO, &b.Time,
		&b.Name, &b.Email, &b.Phone, &b.Business, &b.Message,
		&b.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the booking. A concurrent insert for the same slot trips
// bookings_slot_uniq and comes back as domain.ErrConflict.
func (r *BookingRepoImpl) Create(ctx context.Context, in *domain.BookingReq) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (date, date_iso, time, name, email, phone, business, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q,
		in.Date, in.DateISO, in.Time,
		in.Name, in.Email, in.Phone, in.Business, in.Message,
	))
	if err != nil {
		return nil, translate(err, "This time slot is no longer available. Please choose another.")
	}
	return b, nil
}

func (r *BookingRepoImpl) SlotTaken(ctx context.Context, dateISO, slot string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM bookings WHERE date_iso = $1 AND time = $2)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var taken bool
	err := r.pool.QueryRow(ctx, q, dateISO, slot).Scan(&taken)
	return taken, err
}

// TakenTimes returns the non-empty slot labels booked on dateISO.
func (r *BookingRepoImpl) TakenTimes(ctx context.Context, dateISO string) ([]string, error) {
	const q = `SELECT time FROM bookings WHERE date_iso = $1 ORDER BY timestamp`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, dateISO)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := []string{}
	for rows.Next() {
		var t *string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		if t != nil && *t != "" {
			taken = append(taken, *t)
		}
	}
	return taken, rows.Err()
}

func (r *BookingRepoImpl) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// List returns bookings newest first. limit <= 0 means no limit.
func (r *BookingRepoImpl) List(ctx context.Context, limit int) ([]domain.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings ORDER BY timestamp DESC`
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

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepoImpl) Update(ctx context.Context, b *domain.Booking) (bool, error) {
	const q = `UPDATE bookings SET date=$1, date_iso=$2, time=$3, name=$4, email=$5,
		phone=$6, business=$7, message=$8 WHERE id=$9`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q,
		b.Date, b.DateISO, b.Time, b.Name, b.Email,
		b.Phone, b.Business, b.Message, b.ID,
	)
	if err != nil {
		return false, translate(err, "This time slot is already booked.")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ BookingRepo = (*BookingRepoImpl)(nil)
