package availability

import "sort"

// ResolveDay returns the open windows for one host-local date, applying date
// overrides over weekly rules. Precedence, in order:
//
//  1. any available override for the date wins outright: exactly those
//     overrides' windows are returned and weekly rules are ignored;
//  2. otherwise any blocking override empties the day;
//  3. otherwise the weekly rules for that weekday apply.
//
// Pure function over pre-fetched rows; no I/O.
func ResolveDay(date Date, rules []WeeklyRule, overrides []DateOverride) []Window {
	var dayOverrides []DateOverride
	for _, o := range overrides {
		if o.Date.Equal(date) {
			dayOverrides = append(dayOverrides, o)
		}
	}

	var open []Window
	for _, o := range dayOverrides {
		if o.Available && o.Window != nil {
			open = append(open, *o.Window)
		}
	}
	if len(open) > 0 {
		return sortWindows(open)
	}
	if len(dayOverrides) > 0 {
		return nil
	}

	weekday := date.Weekday()
	for _, r := range rules {
		if r.Weekday == weekday && r.Available {
			open = append(open, r.Window)
		}
	}
	return sortWindows(open)
}

func sortWindows(ws []Window) []Window {
	sort.Slice(ws, func(i, j int) bool {
		return ws[i].Start < ws[j].Start
	})
	return ws
}
