//go:build unit

package usecase_test

import (
	"context"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/infra"
	"meetslot/internal/usecase"

	"github.com/google/uuid"
)

type fakeEventTypes struct {
	byHandle map[string]*usecase.EventTypeWithHost
}

func handleKey(username, slug string) string { return username + "/" + slug }

func (f *fakeEventTypes) FindByHandle(_ context.Context, username, slug string) (*usecase.EventTypeWithHost, error) {
	et, ok := f.byHandle[handleKey(username, slug)]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "event type not found", nil)
	}
	cp := *et
	return &cp, nil
}

type fakeAvailability struct {
	rules     []availability.WeeklyRule
	overrides []availability.DateOverride

	replacedRules     []availability.WeeklyRule
	replacedOverrides map[string][]availability.DateOverride
}

func (f *fakeAvailability) WeeklyRules(_ context.Context, hostID uuid.UUID) ([]availability.WeeklyRule, error) {
	var out []availability.WeeklyRule
	for _, r := range f.rules {
		if r.HostID == hostID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAvailability) OverridesInRange(_ context.Context, hostID uuid.UUID, from, to availability.Date) ([]availability.DateOverride, error) {
	var out []availability.DateOverride
	for _, o := range f.overrides {
		if o.HostID == hostID && !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeAvailability) ReplaceWeeklyRules(_ context.Context, _ uuid.UUID, rules []availability.WeeklyRule) error {
	f.replacedRules = rules
	return nil
}

func (f *fakeAvailability) ReplaceOverridesForDate(_ context.Context, _ uuid.UUID, date availability.Date, overrides []availability.DateOverride) error {
	if f.replacedOverrides == nil {
		f.replacedOverrides = make(map[string][]availability.DateOverride)
	}
	f.replacedOverrides[date.String()] = overrides
	return nil
}

// bookingData is the shared backing slice so the read store and the
// transactional store observe the same state, like one database would.
type bookingData struct {
	bookings        []*booking.Booking
	hostByEventType map[uuid.UUID]uuid.UUID
}

func (d *bookingData) confirmedInRange(eventTypeID uuid.UUID, from, to time.Time) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range d.bookings {
		if b.EventTypeID() == eventTypeID && b.IsConfirmed() &&
			b.StartAtUTC().Before(to) && b.EndAtUTC().After(from) {
			out = append(out, b)
		}
	}
	return out
}

type fakeBookingReads struct {
	data *bookingData
}

func (f *fakeBookingReads) ConfirmedInRange(_ context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	return f.data.confirmedInRange(eventTypeID, from, to), nil
}

func (f *fakeBookingReads) ListForHost(_ context.Context, hostID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range f.data.bookings {
		if f.data.hostByEventType[b.EventTypeID()] == hostID &&
			b.StartAtUTC().Before(to) && b.EndAtUTC().After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeBookingStore runs the transactional closure against the shared data.
// beforeTx, when set, mutates state between slot generation and the locked
// re-validation, simulating a contender that committed first.
type fakeBookingStore struct {
	data     *bookingData
	beforeTx func(d *bookingData)
}

func (f *fakeBookingStore) Within(ctx context.Context, fn func(ctx context.Context, tx usecase.BookingTx) error) error {
	if f.beforeTx != nil {
		f.beforeTx(f.data)
		f.beforeTx = nil
	}
	return fn(ctx, &fakeBookingTx{data: f.data})
}

type fakeBookingTx struct {
	data   *bookingData
	locked []uuid.UUID
}

func (t *fakeBookingTx) LockEventType(_ context.Context, eventTypeID uuid.UUID) error {
	t.locked = append(t.locked, eventTypeID)
	return nil
}

func (t *fakeBookingTx) CountConfirmedOnDate(_ context.Context, eventTypeID uuid.UUID, date availability.Date, tz string) (int, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, b := range t.data.bookings {
		if b.EventTypeID() == eventTypeID && b.IsConfirmed() &&
			availability.DateOf(b.StartAtUTC(), loc).Equal(date) {
			count++
		}
	}
	return count, nil
}

func (t *fakeBookingTx) ConfirmedInRange(_ context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	return t.data.confirmedInRange(eventTypeID, from, to), nil
}

func (t *fakeBookingTx) Insert(_ context.Context, b *booking.Booking) error {
	for _, existing := range t.data.bookings {
		if existing.EventTypeID() == b.EventTypeID() && existing.IsConfirmed() &&
			existing.StartAtUTC().Equal(b.StartAtUTC()) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "booking slot already taken", nil)
		}
	}
	t.data.bookings = append(t.data.bookings, b)
	return nil
}

func (t *fakeBookingTx) FindForHostLocked(_ context.Context, bookingID, hostID uuid.UUID) (*booking.Booking, error) {
	for _, b := range t.data.bookings {
		if b.ID() == bookingID && t.data.hostByEventType[b.EventTypeID()] == hostID {
			return b, nil
		}
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

func (t *fakeBookingTx) UpdateStatus(_ context.Context, b *booking.Booking) error {
	for i, existing := range t.data.bookings {
		if existing.ID() == b.ID() {
			t.data.bookings[i] = b
			return nil
		}
	}
	return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

type fakeMailer struct {
	sent []usecase.ConfirmationEmail
	err  error
}

func (f *fakeMailer) SendBookingConfirmation(_ context.Context, email usecase.ConfirmationEmail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakeMeetingScheduler struct {
	url     string
	err     error
	created []usecase.MeetingDetails
}

func (f *fakeMeetingScheduler) CreateMeeting(_ context.Context, m usecase.MeetingDetails) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, m)
	return f.url, nil
}
