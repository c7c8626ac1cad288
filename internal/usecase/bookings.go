package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/infra"
	"meetslot/internal/pkg/clock"
	"meetslot/internal/pkg/errs"
	"meetslot/internal/pkg/slottoken"

	"github.com/google/uuid"
)

const locationVideo = "video"

const (
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
	EmailStatusSkipped = "skipped"
)

// EmailReport describes the confirmation email outcome. Reason is set only
// when the email was not sent.
type EmailReport struct {
	Status string
	Reason string
}

func (r EmailReport) Sent() bool {
	return r.Status == EmailStatusSent
}

type CreateBookingInput struct {
	Username     string
	Slug         string
	Date         string
	Timezone     string
	StartAtUTC   time.Time
	SlotToken    string
	InviteeName  string
	InviteeEmail string
	Notes        string
}

// BookingResult carries the committed booking plus the outcome of post-commit
// side effects. A failed email or meeting link never fails the booking; it is
// reported here instead.
type BookingResult struct {
	Booking    *booking.Booking
	Event      EventTypeWithHost
	MeetingURL string
	Email      EmailReport
}

type BookingsUseCase interface {
	Create(ctx context.Context, in CreateBookingInput) (*BookingResult, error)
	Cancel(ctx context.Context, bookingID, hostID uuid.UUID, reason string) (*booking.Booking, error)
	ListForHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
}

type bookingsUseCaseImpl struct {
	events   EventTypeReadStore
	reads    BookingReadStore
	store    BookingStore
	gen      *slotGenerator
	signer   *slottoken.Signer
	mailer   Mailer
	meetings MeetingScheduler
	clock    clock.Clock
}

func NewBookingsUseCase(
	events EventTypeReadStore,
	avail AvailabilityReadStore,
	reads BookingReadStore,
	store BookingStore,
	signer *slottoken.Signer,
	mailer Mailer,
	meetings MeetingScheduler,
	clk clock.Clock,
	intervalMin int,
) BookingsUseCase {
	return &bookingsUseCaseImpl{
		events: events,
		reads:  reads,
		store:  store,
		gen: &slotGenerator{
			avail:       avail,
			bookings:    reads,
			signer:      signer,
			clock:       clk,
			intervalMin: intervalMin,
		},
		signer:   signer,
		mailer:   mailer,
		meetings: meetings,
		clock:    clk,
	}
}

func (u *bookingsUseCaseImpl) Create(ctx context.Context, in CreateBookingInput) (*BookingResult, error) {
	day, err := availability.ParseDate(in.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	visitorLoc, err := loadTimezone(in.Timezone)
	if err != nil {
		return nil, err
	}

	et, err := findActiveEventType(ctx, u.events, in.Username, in.Slug)
	if err != nil {
		return nil, err
	}
	hostLoc, err := time.LoadLocation(et.HostTimezone)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "host timezone is corrupt"), ErrDatabaseOperationFailed)
	}

	// Re-derive the offered set fresh; the client's view may be stale.
	slots, err := u.gen.generate(ctx, et, day, visitorLoc, hostLoc)
	if err != nil {
		return nil, err
	}
	slot := matchSlot(slots, in.StartAtUTC)
	if slot == nil {
		return nil, ErrSlotUnavailable
	}
	if !u.signer.Verify(et.EventType.ID, slot.StartAtUTC, in.SlotToken) {
		return nil, ErrInvalidSlotToken
	}

	b, err := booking.NewBooking(
		et.EventType.ID,
		slot.StartAtUTC, slot.EndAtUTC,
		et.EventType.BufferBeforeMin, et.EventType.BufferAfterMin,
		in.InviteeName, in.InviteeEmail, in.Notes, in.Timezone,
		u.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	if err := u.commit(ctx, et, b, slot.HostDate); err != nil {
		return nil, err
	}

	result := &BookingResult{Booking: b, Event: *et}
	u.runSideEffects(ctx, result, visitorLoc)
	return result, nil
}

// commit holds the event type row lock while the daily cap and the buffered
// overlap are re-checked, so concurrent attempts against the same event type
// serialize and exactly one of two contenders for a slot wins.
func (u *bookingsUseCaseImpl) commit(
	ctx context.Context,
	et *EventTypeWithHost,
	b *booking.Booking,
	hostDate availability.Date,
) error {
	err := u.store.Within(ctx, func(ctx context.Context, tx BookingTx) error {
		if err := tx.LockEventType(ctx, et.EventType.ID); err != nil {
			return err
		}

		if limit := et.EventType.MaxBookingsPerDay; limit > 0 {
			count, err := tx.CountConfirmedOnDate(ctx, et.EventType.ID, hostDate, et.HostTimezone)
			if err != nil {
				return err
			}
			if count >= limit {
				return ErrDailyLimitReached
			}
		}

		blocked := b.BlockedInterval()
		neighbors, err := tx.ConfirmedInRange(ctx, et.EventType.ID,
			blocked.Start.Add(-24*time.Hour), blocked.End.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if overlapsAny(blocked, neighbors) {
			return ErrSlotUnavailable
		}

		return tx.Insert(ctx, b)
	})
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrDailyLimitReached), errors.Is(err, ErrSlotUnavailable):
		return err
	case infra.IsKind(err, infra.KindDuplicateKey):
		return ErrSlotUnavailable
	default:
		return errs.Mark(errs.Wrap(err, "failed to commit booking"), ErrDatabaseOperationFailed)
	}
}

// runSideEffects performs the post-commit work. Failures are logged and
// surfaced on the result, never returned as errors.
func (u *bookingsUseCaseImpl) runSideEffects(ctx context.Context, r *BookingResult, visitorLoc *time.Location) {
	b := r.Booking
	et := r.Event

	if et.EventType.LocationType == locationVideo {
		url, err := u.meetings.CreateMeeting(ctx, MeetingDetails{
			EventName:    et.EventType.Name,
			HostName:     et.HostName,
			InviteeName:  b.InviteeName(),
			InviteeEmail: b.InviteeEmail(),
			StartAtUTC:   b.StartAtUTC(),
			EndAtUTC:     b.EndAtUTC(),
		})
		if err != nil {
			slog.Warn("meeting link creation failed",
				"booking_id", b.ID(), "error", err.Error())
		} else {
			r.MeetingURL = url
		}
	}

	email := ConfirmationEmail{
		To:          b.InviteeEmail(),
		InviteeName: b.InviteeName(),
		EventName:   et.EventType.Name,
		HostName:    et.HostName,
		StartLocal:  b.StartAtUTC().In(visitorLoc).Format("Mon, 2 Jan 2006 15:04"),
		EndLocal:    b.EndAtUTC().In(visitorLoc).Format("15:04"),
		Timezone:    b.VisitorTimezone(),
		MeetingURL:  r.MeetingURL,
	}
	err := u.mailer.SendBookingConfirmation(ctx, email)
	switch {
	case err == nil:
		r.Email = EmailReport{Status: EmailStatusSent}
	case errors.Is(err, ErrEmailDisabled):
		slog.Info("confirmation email skipped, delivery disabled", "booking_id", b.ID())
		r.Email = EmailReport{Status: EmailStatusSkipped, Reason: "email delivery disabled"}
	default:
		slog.Warn("confirmation email failed",
			"booking_id", b.ID(), "error", err.Error())
		r.Email = EmailReport{Status: EmailStatusFailed, Reason: err.Error()}
	}
}

func (u *bookingsUseCaseImpl) Cancel(ctx context.Context, bookingID, hostID uuid.UUID, reason string) (*booking.Booking, error) {
	var canceled *booking.Booking
	err := u.store.Within(ctx, func(ctx context.Context, tx BookingTx) error {
		b, err := tx.FindForHostLocked(ctx, bookingID, hostID)
		if err != nil {
			return err
		}
		if err := b.Cancel(reason, u.clock.Now()); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, b); err != nil {
			return err
		}
		canceled = b
		return nil
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, booking.ErrAlreadyCanceled):
			return nil, ErrBookingAlreadyCanceled
		default:
			return nil, errs.Mark(errs.Wrap(err, "failed to cancel booking"), ErrDatabaseOperationFailed)
		}
	}
	return canceled, nil
}

func (u *bookingsUseCaseImpl) ListForHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	list, err := u.reads.ListForHost(ctx, hostID, from, to)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list bookings"), ErrDatabaseOperationFailed)
	}
	return list, nil
}

func matchSlot(slots []Slot, startAtUTC time.Time) *Slot {
	for i := range slots {
		if slots[i].StartAtUTC.Equal(startAtUTC) {
			return &slots[i]
		}
	}
	return nil
}
