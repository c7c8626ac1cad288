package usecase

import (
	"context"
	"errors"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/domain/event"

	"github.com/google/uuid"
)

// EventTypeWithHost is the event type joined with the owning host's public
// identity, as resolved from (username, slug).
type EventTypeWithHost struct {
	EventType    event.EventType
	HostUsername string
	HostName     string
	HostTimezone string
}

type EventTypeReadStore interface {
	FindByHandle(ctx context.Context, username, slug string) (*EventTypeWithHost, error)
}

type AvailabilityReadStore interface {
	WeeklyRules(ctx context.Context, hostID uuid.UUID) ([]availability.WeeklyRule, error)
	OverridesInRange(ctx context.Context, hostID uuid.UUID, from, to availability.Date) ([]availability.DateOverride, error)
}

type AvailabilityRepository interface {
	ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, rules []availability.WeeklyRule) error
	ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date availability.Date, overrides []availability.DateOverride) error
}

type BookingReadStore interface {
	// ConfirmedInRange returns confirmed bookings whose [start, end) spans
	// intersect [from, to). Callers widen the range to cover buffers.
	ConfirmedInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
	ListForHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
}

// BookingStore runs booking mutations inside one database transaction. The
// committer receives an explicit BookingTx rather than opening transactions
// implicitly, so tests can inject a fake transactional store.
type BookingStore interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
}

type BookingTx interface {
	// LockEventType serializes concurrent booking attempts against one
	// event type (SELECT ... FOR UPDATE on its row).
	LockEventType(ctx context.Context, eventTypeID uuid.UUID) error
	// CountConfirmedOnDate counts confirmed bookings whose start instant
	// falls on the given calendar date as observed in tz.
	CountConfirmedOnDate(ctx context.Context, eventTypeID uuid.UUID, date availability.Date, tz string) (int, error)
	ConfirmedInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
	Insert(ctx context.Context, b *booking.Booking) error
	FindForHostLocked(ctx context.Context, bookingID, hostID uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
}

type ConfirmationEmail struct {
	To          string
	InviteeName string
	EventName   string
	HostName    string
	StartLocal  string
	EndLocal    string
	Timezone    string
	MeetingURL  string
}

// ErrEmailDisabled is returned by a Mailer whose delivery is turned off, so
// the caller can report the email as skipped rather than failed.
var ErrEmailDisabled = errors.New("email delivery disabled")

// Mailer delivers the booking confirmation. Invoked strictly after commit;
// failures are reported to the caller but never affect the booking.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, email ConfirmationEmail) error
}

type MeetingDetails struct {
	EventName    string
	HostName     string
	InviteeName  string
	InviteeEmail string
	StartAtUTC   time.Time
	EndAtUTC     time.Time
}

// MeetingScheduler creates the conferencing link post-commit, best effort.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, m MeetingDetails) (string, error)
}
