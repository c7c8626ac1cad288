package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidWindow    = errors.New("window start must be before end")
	ErrInvalidWeekday   = errors.New("weekday must be between 0 and 6")
	ErrMissingWindow    = errors.New("available override requires a time window")
)

// MinuteOfDay is minutes since local midnight, 0..1440.
type MinuteOfDay int

const EndOfDay MinuteOfDay = 24 * 60

// ParseMinuteOfDay accepts "HH:MM"; a longer "HH:MM:SS" form is truncated,
// matching how time columns come back from the database.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Window is a half-open [Start, End) interval within one day's wall clock.
type Window struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

func NewWindow(start, end MinuteOfDay) (Window, error) {
	if start < 0 || end > EndOfDay || start >= end {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start, End: end}, nil
}

// WeeklyRule opens (or closes) a recurring window on one weekday.
type WeeklyRule struct {
	ID        uuid.UUID
	HostID    uuid.UUID
	Weekday   time.Weekday
	Window    Window
	Available bool
}

func NewWeeklyRule(hostID uuid.UUID, weekday int, window Window, available bool) (WeeklyRule, error) {
	if weekday < 0 || weekday > 6 {
		return WeeklyRule{}, ErrInvalidWeekday
	}
	if _, err := NewWindow(window.Start, window.End); err != nil {
		return WeeklyRule{}, err
	}
	return WeeklyRule{
		ID:        uuid.New(),
		HostID:    hostID,
		Weekday:   time.Weekday(weekday),
		Window:    window,
		Available: available,
	}, nil
}

// DateOverride is an exception for one calendar date. A nil Window on a
// blocking override blocks regardless of time; an available override must
// carry the window it opens.
type DateOverride struct {
	ID        uuid.UUID
	HostID    uuid.UUID
	Date      Date
	Window    *Window
	Available bool
}

func NewDateOverride(hostID uuid.UUID, date Date, window *Window, available bool) (DateOverride, error) {
	if available && window == nil {
		return DateOverride{}, ErrMissingWindow
	}
	if window != nil {
		if _, err := NewWindow(window.Start, window.End); err != nil {
			return DateOverride{}, err
		}
	}
	return DateOverride{
		ID:        uuid.New(),
		HostID:    hostID,
		Date:      date,
		Window:    window,
		Available: available,
	}, nil
}
