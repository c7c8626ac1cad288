package usecase

import (
	"context"
	"sort"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/domain/booking"
	"meetslot/internal/infra"
	"meetslot/internal/pkg/clock"
	"meetslot/internal/pkg/errs"
	"meetslot/internal/pkg/slottoken"
)

// Slot is one bookable candidate offered to a visitor: the UTC span, the same
// span rendered in the visitor's timezone, and the signed token the visitor
// must echo back when booking.
type Slot struct {
	StartAtUTC time.Time
	EndAtUTC   time.Time
	StartLocal time.Time
	EndLocal   time.Time
	HostDate   availability.Date
	Token      string
}

type SlotList struct {
	Event    EventTypeWithHost
	Date     availability.Date
	Timezone string
	Slots    []Slot
}

type SlotsUseCase interface {
	ListSlots(ctx context.Context, username, slug, date, timezone string) (*SlotList, error)
}

type slotsUseCaseImpl struct {
	events EventTypeReadStore
	gen    *slotGenerator
}

func NewSlotsUseCase(
	events EventTypeReadStore,
	avail AvailabilityReadStore,
	bookings BookingReadStore,
	signer *slottoken.Signer,
	clk clock.Clock,
	intervalMin int,
) SlotsUseCase {
	return &slotsUseCaseImpl{
		events: events,
		gen: &slotGenerator{
			avail:       avail,
			bookings:    bookings,
			signer:      signer,
			clock:       clk,
			intervalMin: intervalMin,
		},
	}
}

func (u *slotsUseCaseImpl) ListSlots(ctx context.Context, username, slug, date, timezone string) (*SlotList, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	visitorLoc, err := loadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	et, err := findActiveEventType(ctx, u.events, username, slug)
	if err != nil {
		return nil, err
	}
	hostLoc, err := time.LoadLocation(et.HostTimezone)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "host timezone is corrupt"), ErrDatabaseOperationFailed)
	}

	slots, err := u.gen.generate(ctx, et, day, visitorLoc, hostLoc)
	if err != nil {
		return nil, err
	}
	return &SlotList{
		Event:    *et,
		Date:     day,
		Timezone: timezone,
		Slots:    slots,
	}, nil
}

// slotGenerator enumerates bookable slots for one visitor-local date. The
// booking path reuses it so a commit always re-derives the offered set fresh
// instead of trusting anything the client sent beyond the token.
type slotGenerator struct {
	avail       AvailabilityReadStore
	bookings    BookingReadStore
	signer      *slottoken.Signer
	clock       clock.Clock
	intervalMin int
}

// generate walks host-local dates from one day before through one day after
// the visitor's date; timezone offsets can shift a calendar boundary by up to
// a day in either direction, so this window covers every start instant that
// can land on the visitor's date.
func (g *slotGenerator) generate(
	ctx context.Context,
	et *EventTypeWithHost,
	visitorDate availability.Date,
	visitorLoc, hostLoc *time.Location,
) ([]Slot, error) {
	first := visitorDate.AddDays(-1)
	last := visitorDate.AddDays(1)

	rules, err := g.avail.WeeklyRules(ctx, et.EventType.HostID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load weekly rules"), ErrDatabaseOperationFailed)
	}
	overrides, err := g.avail.OverridesInRange(ctx, et.EventType.HostID, first, last)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load date overrides"), ErrDatabaseOperationFailed)
	}

	// Widened by a day on each side so bookings whose buffered footprint
	// reaches into the window are loaded too.
	loadFrom := first.StartOfDay(hostLoc).Add(-24 * time.Hour)
	loadTo := last.AddDays(1).StartOfDay(hostLoc).Add(24 * time.Hour)
	existing, err := g.bookings.ConfirmedInRange(ctx, et.EventType.ID, loadFrom, loadTo)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load confirmed bookings"), ErrDatabaseOperationFailed)
	}

	perDate := make(map[availability.Date]int)
	for _, b := range existing {
		perDate[availability.DateOf(b.StartAtUTC(), hostLoc)]++
	}

	now := g.clock.Now()
	duration := et.EventType.Duration()
	bufBefore := et.EventType.BufferBefore()
	bufAfter := et.EventType.BufferAfter()
	startOffset := availability.MinuteOfDay(et.EventType.BufferBeforeMin)
	endNeed := et.EventType.DurationMin + et.EventType.BufferAfterMin
	step := availability.MinuteOfDay(g.intervalMin)

	var out []Slot
	for d := first; !d.After(last); d = d.AddDays(1) {
		if limit := et.EventType.MaxBookingsPerDay; limit > 0 && perDate[d] >= limit {
			continue
		}
		for _, w := range availability.ResolveDay(d, rules, overrides) {
			for m := w.Start + startOffset; int(m)+endNeed <= int(w.End); m += step {
				start := d.At(m, hostLoc)
				if !availability.DateOf(start, visitorLoc).Equal(visitorDate) {
					continue
				}
				if !start.After(now) {
					continue
				}
				end := start.Add(duration)
				candidate := booking.Interval{Start: start, End: end}.Buffered(bufBefore, bufAfter)
				if overlapsAny(candidate, existing) {
					continue
				}
				out = append(out, Slot{
					StartAtUTC: start.UTC(),
					EndAtUTC:   end.UTC(),
					StartLocal: start.In(visitorLoc),
					EndLocal:   end.In(visitorLoc),
					HostDate:   d,
					Token:      g.signer.Sign(et.EventType.ID, start),
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAtUTC.Before(out[j].StartAtUTC)
	})
	return out, nil
}

func overlapsAny(candidate booking.Interval, existing []*booking.Booking) bool {
	for _, b := range existing {
		if candidate.Overlaps(b.BlockedInterval()) {
			return true
		}
	}
	return false
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

func findActiveEventType(ctx context.Context, events EventTypeReadStore, username, slug string) (*EventTypeWithHost, error) {
	et, err := events.FindByHandle(ctx, username, slug)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to find event type"), ErrDatabaseOperationFailed)
	}
	if !et.EventType.Active {
		return nil, ErrEventTypeNotFound
	}
	return et, nil
}
