package booking

import "time"

// Interval is a half-open [Start, End) span of instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps is the open-interval test: touching endpoints do not overlap, so a
// meeting ending at 10:00 coexists with one starting at 10:00.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Buffered widens the interval by the mandatory gaps before and after. All
// overlap checks in the engine run on buffered intervals.
func (i Interval) Buffered(before, after time.Duration) Interval {
	return Interval{
		Start: i.Start.Add(-before),
		End:   i.End.Add(after),
	}
}
