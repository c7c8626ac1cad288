package repository

import (
	"context"
	"time"

	"meetslot/internal/domain/booking"
	"meetslot/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
b.id, b.event_type_id, b.start_at_utc, b.end_at_utc,
b.buffer_before_min, b.buffer_after_min, b.status,
b.invitee_name, b.invitee_email, b.notes, b.visitor_timezone,
coalesce(b.cancel_reason, ''), b.canceled_at, b.created_at`

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, eventTypeID        uuid.UUID
		startAtUTC, endAtUTC   time.Time
		bufBefore, bufAfter    int
		status                 string
		name, email, notes, tz string
		cancelReason           string
		canceledAt             *time.Time
		createdAt              time.Time
	)
	err := row.Scan(
		&id, &eventTypeID, &startAtUTC, &endAtUTC,
		&bufBefore, &bufAfter, &status,
		&name, &email, &notes, &tz,
		&cancelReason, &canceledAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		id, eventTypeID,
		startAtUTC.UTC(), endAtUTC.UTC(),
		bufBefore, bufAfter,
		booking.Status(status),
		name, email, notes, tz, cancelReason,
		canceledAt, createdAt,
	), nil
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	defer rows.Close()
	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: pool}
}

const confirmedInRangeSQL = `
SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.event_type_id = $1 AND b.status = 'confirmed'
  AND b.start_at_utc < $3 AND b.end_at_utc > $2
ORDER BY b.start_at_utc`

func (r *BookingRepository) ConfirmedInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, confirmedInRangeSQL, eventTypeID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list confirmed bookings", err)
	}
	out, err := collectBookings(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read confirmed bookings", err)
	}
	return out, nil
}

const listForHostSQL = `
SELECT ` + bookingColumns + `
FROM bookings b
JOIN event_types e ON e.id = b.event_type_id
WHERE e.user_id = $1 AND b.start_at_utc < $3 AND b.end_at_utc > $2
ORDER BY b.start_at_utc`

func (r *BookingRepository) ListForHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, listForHostSQL, hostID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list host bookings", err)
	}
	out, err := collectBookings(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read host bookings", err)
	}
	return out, nil
}
