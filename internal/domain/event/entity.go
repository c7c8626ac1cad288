// Package event defines the bookable event type: a meeting definition owned
// by a host, with a duration, mandatory buffers and an optional daily cap.
// The definition is treated as immutable during a single slot-generation or
// booking pass.
package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrNegativeBuffer  = errors.New("buffers cannot be negative")
	ErrNegativeCap     = errors.New("daily cap cannot be negative")
)

type EventType struct {
	ID              uuid.UUID
	HostID          uuid.UUID
	Name            string
	Slug            string
	DurationMin     int
	BufferBeforeMin int
	BufferAfterMin  int
	// MaxBookingsPerDay caps confirmed bookings per host-local calendar
	// date; 0 means unlimited.
	MaxBookingsPerDay int
	LocationType      string
	Active            bool
}

func (e EventType) Validate() error {
	if e.DurationMin <= 0 {
		return ErrInvalidDuration
	}
	if e.BufferBeforeMin < 0 || e.BufferAfterMin < 0 {
		return ErrNegativeBuffer
	}
	if e.MaxBookingsPerDay < 0 {
		return ErrNegativeCap
	}
	return nil
}

func (e EventType) Duration() time.Duration {
	return time.Duration(e.DurationMin) * time.Minute
}

func (e EventType) BufferBefore() time.Duration {
	return time.Duration(e.BufferBeforeMin) * time.Minute
}

func (e EventType) BufferAfter() time.Duration {
	return time.Duration(e.BufferAfterMin) * time.Minute
}
