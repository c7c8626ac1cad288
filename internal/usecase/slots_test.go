//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/domain/event"
	"meetslot/internal/pkg/clock"
	"meetslot/internal/pkg/slottoken"
	"meetslot/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenSecret = "unit-test-secret"

var (
	hostID      = uuid.MustParse("aaaaaaaa-1111-2222-3333-444444444444")
	eventTypeID = uuid.MustParse("bbbbbbbb-1111-2222-3333-444444444444")
)

// 2026-03-02 is a Monday.
const mondayStr = "2026-03-02"

func minuteOf(t *testing.T, s string) availability.MinuteOfDay {
	t.Helper()
	m, err := availability.ParseMinuteOfDay(s)
	require.NoError(t, err)
	return m
}

func windowOf(t *testing.T, start, end string) availability.Window {
	t.Helper()
	w, err := availability.NewWindow(minuteOf(t, start), minuteOf(t, end))
	require.NoError(t, err)
	return w
}

func weeklyRule(t *testing.T, weekday int, start, end string) availability.WeeklyRule {
	t.Helper()
	r, err := availability.NewWeeklyRule(hostID, weekday, windowOf(t, start, end), true)
	require.NoError(t, err)
	return r
}

func confirmedBooking(t *testing.T, startUTC time.Time, durationMin, bufBefore, bufAfter int) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(
		eventTypeID,
		startUTC, startUTC.Add(time.Duration(durationMin)*time.Minute),
		bufBefore, bufAfter,
		"Existing Invitee", "existing@example.com", "", "UTC",
		startUTC.Add(-time.Hour),
	)
	require.NoError(t, err)
	return b
}

type slotsFixture struct {
	et     *usecase.EventTypeWithHost
	avail  *fakeAvailability
	data   *bookingData
	clock  *clock.MockClock
	signer *slottoken.Signer
	uc     usecase.SlotsUseCase
}

func newSlotsFixture(hostTZ string, intervalMin int, mutate func(*event.EventType)) *slotsFixture {
	et := event.EventType{
		ID:           eventTypeID,
		HostID:       hostID,
		Name:         "Intro Call",
		Slug:         "intro",
		DurationMin:  30,
		LocationType: "video",
		Active:       true,
	}
	if mutate != nil {
		mutate(&et)
	}
	withHost := &usecase.EventTypeWithHost{
		EventType:    et,
		HostUsername: "alice",
		HostName:     "Alice",
		HostTimezone: hostTZ,
	}
	f := &slotsFixture{
		et:     withHost,
		avail:  &fakeAvailability{},
		data:   &bookingData{hostByEventType: map[uuid.UUID]uuid.UUID{eventTypeID: hostID}},
		clock:  clock.NewMockClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		signer: slottoken.NewSigner(tokenSecret),
	}
	f.uc = usecase.NewSlotsUseCase(
		&fakeEventTypes{byHandle: map[string]*usecase.EventTypeWithHost{"alice/intro": withHost}},
		f.avail,
		&fakeBookingReads{data: f.data},
		f.signer,
		f.clock,
		intervalMin,
	)
	return f
}

func slotStarts(list *usecase.SlotList) []time.Time {
	out := make([]time.Time, len(list.Slots))
	for i, s := range list.Slots {
		out[i] = s.StartAtUTC
	}
	return out
}

func TestListSlotsEvenSpacing(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "17:00")}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)

	require.Len(t, list.Slots, 16)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), list.Slots[0].StartAtUTC)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), list.Slots[0].EndAtUTC)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC), list.Slots[15].StartAtUTC)
	for i := 1; i < len(list.Slots); i++ {
		assert.Equal(t, 30*time.Minute, list.Slots[i].StartAtUTC.Sub(list.Slots[i-1].StartAtUTC))
	}
}

func TestListSlotsTokensVerify(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "10:00")}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)
	require.NotEmpty(t, list.Slots)

	for _, s := range list.Slots {
		assert.True(t, f.signer.Verify(eventTypeID, s.StartAtUTC, s.Token))
	}
	assert.False(t, f.signer.Verify(eventTypeID, list.Slots[0].StartAtUTC.Add(time.Minute), list.Slots[0].Token))
}

func TestListSlotsCrossTimezoneDateFilter(t *testing.T) {
	// Monday 18:00-20:00 in Los Angeles lands on Tuesday in Tokyo. A Tokyo
	// visitor asking for Tuesday must see exactly those starts; asking for
	// Monday must not.
	f := newSlotsFixture("America/Los_Angeles", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "18:00", "20:00")}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", "2026-03-03", "Asia/Tokyo")
	require.NoError(t, err)

	require.Len(t, list.Slots, 4)
	assert.Equal(t, time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC), list.Slots[0].StartAtUTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	for _, s := range list.Slots {
		assert.Equal(t, "2026-03-03", availability.DateOf(s.StartAtUTC, tokyo).String())
	}

	monday, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Empty(t, monday.Slots)
}

func TestListSlotsBufferedOverlapBlocks(t *testing.T) {
	// Booking 10:00-10:30 with 5-minute buffers blocks 09:55-10:35. Candidate
	// slots carry the event type's own 5-minute buffers, so anything whose
	// buffered span touches that range disappears.
	f := newSlotsFixture("UTC", 15, func(e *event.EventType) {
		e.BufferBeforeMin = 5
		e.BufferAfterMin = 5
	})
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "12:00")}
	f.data.bookings = []*booking.Booking{
		confirmedBooking(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 30, 5, 5),
	}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)

	want := []time.Time{
		time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 9, 20, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 50, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 11, 5, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 11, 20, 0, 0, time.UTC),
	}
	assert.Equal(t, want, slotStarts(list))
}

func TestListSlotsDailyCapSkipsDate(t *testing.T) {
	f := newSlotsFixture("UTC", 30, func(e *event.EventType) {
		e.MaxBookingsPerDay = 2
	})
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "17:00")}
	f.data.bookings = []*booking.Booking{
		confirmedBooking(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 30, 0, 0),
		confirmedBooking(t, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), 30, 0, 0),
	}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)
	assert.Empty(t, list.Slots)
}

func TestListSlotsFutureOnly(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "17:00")}
	f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)

	// 12:00 itself is not strictly in the future.
	require.Len(t, list.Slots, 9)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC), list.Slots[0].StartAtUTC)
}

func TestListSlotsAvailableOverrideWins(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "17:00")}
	monday, err := availability.ParseDate(mondayStr)
	require.NoError(t, err)
	w := windowOf(t, "13:00", "15:00")
	o, err := availability.NewDateOverride(hostID, monday, &w, true)
	require.NoError(t, err)
	f.avail.overrides = []availability.DateOverride{o}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)

	want := []time.Time{
		time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, want, slotStarts(list))
}

func TestListSlotsBlockingOverrideEmptiesDay(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)
	f.avail.rules = []availability.WeeklyRule{weeklyRule(t, 1, "09:00", "17:00")}
	monday, err := availability.ParseDate(mondayStr)
	require.NoError(t, err)
	o, err := availability.NewDateOverride(hostID, monday, nil, false)
	require.NoError(t, err)
	f.avail.overrides = []availability.DateOverride{o}

	list, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	require.NoError(t, err)
	assert.Empty(t, list.Slots)
}

func TestListSlotsInputErrors(t *testing.T) {
	f := newSlotsFixture("UTC", 30, nil)

	_, err := f.uc.ListSlots(context.Background(), "alice", "intro", "03/02/2026", "UTC")
	assert.ErrorIs(t, err, usecase.ErrInvalidDate)

	_, err = f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "Mars/Olympus")
	assert.ErrorIs(t, err, usecase.ErrInvalidTimezone)

	_, err = f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "")
	assert.ErrorIs(t, err, usecase.ErrInvalidTimezone)

	_, err = f.uc.ListSlots(context.Background(), "nobody", "intro", mondayStr, "UTC")
	assert.ErrorIs(t, err, usecase.ErrEventTypeNotFound)
}

func TestListSlotsInactiveEventType(t *testing.T) {
	f := newSlotsFixture("UTC", 30, func(e *event.EventType) {
		e.Active = false
	})

	_, err := f.uc.ListSlots(context.Background(), "alice", "intro", mondayStr, "UTC")
	assert.ErrorIs(t, err, usecase.ErrEventTypeNotFound)
}
