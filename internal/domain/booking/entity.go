package booking

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyInviteeName = errors.New("invitee name is required")
	ErrInvalidEmail     = errors.New("invalid invitee email")
	ErrInvalidInterval  = errors.New("start must be before end")
	ErrAlreadyCanceled  = errors.New("booking is already canceled")
)

// Booking is a confirmed (or later canceled) appointment on an event type.
// Buffer values are snapshotted at creation: later edits to the event type
// never change an existing booking's blocked footprint.
type Booking struct {
	id              uuid.UUID
	eventTypeID     uuid.UUID
	startAtUTC      time.Time
	endAtUTC        time.Time
	bufferBeforeMin int
	bufferAfterMin  int
	status          Status
	inviteeName     string
	inviteeEmail    string
	notes           string
	visitorTimezone string
	cancelReason    string
	canceledAt      *time.Time
	createdAt       time.Time
}

func NewBooking(
	eventTypeID uuid.UUID,
	startAtUTC, endAtUTC time.Time,
	bufferBeforeMin, bufferAfterMin int,
	inviteeName, inviteeEmail, notes, visitorTimezone string,
	now time.Time,
) (*Booking, error) {
	inviteeName = strings.TrimSpace(inviteeName)
	if inviteeName == "" {
		return nil, ErrEmptyInviteeName
	}
	if _, err := mail.ParseAddress(inviteeEmail); err != nil {
		return nil, ErrInvalidEmail
	}
	if !startAtUTC.Before(endAtUTC) {
		return nil, ErrInvalidInterval
	}

	return &Booking{
		id:              uuid.New(),
		eventTypeID:     eventTypeID,
		startAtUTC:      startAtUTC.UTC(),
		endAtUTC:        endAtUTC.UTC(),
		bufferBeforeMin: bufferBeforeMin,
		bufferAfterMin:  bufferAfterMin,
		status:          StatusConfirmed,
		inviteeName:     inviteeName,
		inviteeEmail:    inviteeEmail,
		notes:           strings.TrimSpace(notes),
		visitorTimezone: visitorTimezone,
		createdAt:       now,
	}, nil
}

func Reconstruct(
	id, eventTypeID uuid.UUID,
	startAtUTC, endAtUTC time.Time,
	bufferBeforeMin, bufferAfterMin int,
	status Status,
	inviteeName, inviteeEmail, notes, visitorTimezone, cancelReason string,
	canceledAt *time.Time,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		eventTypeID:     eventTypeID,
		startAtUTC:      startAtUTC,
		endAtUTC:        endAtUTC,
		bufferBeforeMin: bufferBeforeMin,
		bufferAfterMin:  bufferAfterMin,
		status:          status,
		inviteeName:     inviteeName,
		inviteeEmail:    inviteeEmail,
		notes:           notes,
		visitorTimezone: visitorTimezone,
		cancelReason:    cancelReason,
		canceledAt:      canceledAt,
		createdAt:       createdAt,
	}
}

// Cancel is the only mutation a booking admits: confirmed -> canceled.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.status == StatusCanceled {
		return ErrAlreadyCanceled
	}
	b.status = StatusCanceled
	b.cancelReason = strings.TrimSpace(reason)
	b.canceledAt = &now
	return nil
}

// BlockedInterval is the buffered footprint no other confirmed booking on the
// same event type may intersect.
func (b *Booking) BlockedInterval() Interval {
	return Interval{Start: b.startAtUTC, End: b.endAtUTC}.Buffered(
		time.Duration(b.bufferBeforeMin)*time.Minute,
		time.Duration(b.bufferAfterMin)*time.Minute,
	)
}

func (b *Booking) IsConfirmed() bool {
	return b.status == StatusConfirmed
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) EventTypeID() uuid.UUID  { return b.eventTypeID }
func (b *Booking) StartAtUTC() time.Time   { return b.startAtUTC }
func (b *Booking) EndAtUTC() time.Time     { return b.endAtUTC }
func (b *Booking) BufferBeforeMin() int    { return b.bufferBeforeMin }
func (b *Booking) BufferAfterMin() int     { return b.bufferAfterMin }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) InviteeName() string     { return b.inviteeName }
func (b *Booking) InviteeEmail() string    { return b.inviteeEmail }
func (b *Booking) Notes() string           { return b.notes }
func (b *Booking) VisitorTimezone() string { return b.visitorTimezone }
func (b *Booking) CancelReason() string    { return b.cancelReason }
func (b *Booking) CanceledAt() *time.Time  { return b.canceledAt }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
