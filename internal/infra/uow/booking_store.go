// Package uow runs booking mutations inside a single pgx transaction. The
// event type row is the mutex proxy for all capacity and overlap invariants
// of that event type: the committer locks it, re-validates, inserts, commits.
package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/infra"
	"meetslot/internal/pkg/errs"
	"meetslot/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PgBookingStore struct {
	pool *pgxpool.Pool
}

func NewPgBookingStore(pool *pgxpool.Pool) usecase.BookingStore {
	return &PgBookingStore{pool: pool}
}

// Within runs fn inside a ReadCommitted transaction, retrying serialization
// failures and deadlocks with backoff. Avoids defer accumulation in the retry
// loop to prevent connection leaks.
func (s *PgBookingStore) Within(ctx context.Context, fn func(ctx context.Context, tx usecase.BookingTx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = fn(ctx, &pgBookingTx{tx: pgxTx})
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) || attempt == maxRetries {
			if isRetryableError(err) {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := time.Duration(1<<attempt) * base
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgBookingTx struct {
	tx pgx.Tx
}

func (t *pgBookingTx) LockEventType(ctx context.Context, eventTypeID uuid.UUID) error {
	var id uuid.UUID
	err := t.tx.QueryRow(ctx,
		`SELECT id FROM event_types WHERE id = $1 FOR UPDATE`,
		eventTypeID,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return infra.WrapRepoErr(infra.KindNotFound, "event type not found", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to lock event type", err)
	}
	return nil
}

const countConfirmedOnDateSQL = `
SELECT count(*)
FROM bookings
WHERE event_type_id = $1 AND status = 'confirmed'
  AND (start_at_utc AT TIME ZONE $2)::date = $3::date`

func (t *pgBookingTx) CountConfirmedOnDate(ctx context.Context, eventTypeID uuid.UUID, date availability.Date, tz string) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, countConfirmedOnDateSQL, eventTypeID, tz, date.String()).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count bookings for date", err)
	}
	return count, nil
}

const txConfirmedInRangeSQL = `
SELECT id, event_type_id, start_at_utc, end_at_utc,
       buffer_before_min, buffer_after_min, status,
       invitee_name, invitee_email, notes, visitor_timezone,
       coalesce(cancel_reason, ''), canceled_at, created_at
FROM bookings
WHERE event_type_id = $1 AND status = 'confirmed'
  AND start_at_utc < $3 AND end_at_utc > $2
ORDER BY start_at_utc`

func (t *pgBookingTx) ConfirmedInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := t.tx.Query(ctx, txConfirmedInRangeSQL, eventTypeID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list confirmed bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read bookings", err)
	}
	return out, nil
}

const insertBookingSQL = `
INSERT INTO bookings (
	id, event_type_id, start_at_utc, end_at_utc,
	buffer_before_min, buffer_after_min, status,
	invitee_name, invitee_email, notes, visitor_timezone, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (t *pgBookingTx) Insert(ctx context.Context, b *booking.Booking) error {
	_, err := t.tx.Exec(ctx, insertBookingSQL,
		b.ID(), b.EventTypeID(), b.StartAtUTC(), b.EndAtUTC(),
		b.BufferBeforeMin(), b.BufferAfterMin(), b.Status().String(),
		b.InviteeName(), b.InviteeEmail(), b.Notes(), b.VisitorTimezone(), b.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "booking slot already taken", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert booking", err)
	}
	return nil
}

const findForHostLockedSQL = `
SELECT b.id, b.event_type_id, b.start_at_utc, b.end_at_utc,
       b.buffer_before_min, b.buffer_after_min, b.status,
       b.invitee_name, b.invitee_email, b.notes, b.visitor_timezone,
       coalesce(b.cancel_reason, ''), b.canceled_at, b.created_at
FROM bookings b
JOIN event_types e ON e.id = b.event_type_id
WHERE b.id = $1 AND e.user_id = $2
FOR UPDATE OF b`

func (t *pgBookingTx) FindForHostLocked(ctx context.Context, bookingID, hostID uuid.UUID) (*booking.Booking, error) {
	b, err := scanBookingRow(t.tx.QueryRow(ctx, findForHostLockedSQL, bookingID, hostID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load booking", err)
	}
	return b, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, cancel_reason = nullif($3, ''), canceled_at = $4
WHERE id = $1`

func (t *pgBookingTx) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	_, err := t.tx.Exec(ctx, updateBookingStatusSQL,
		b.ID(), b.Status().String(), b.CancelReason(), b.CanceledAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking status", err)
	}
	return nil
}

func scanBookingRow(row pgx.Row) (*booking.Booking, error) {
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
