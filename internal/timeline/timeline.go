// Package timeline builds the time axis a simulation runs against.
// An axis is either a plain integer step sequence or a calendar sequence
// generated from a start timestamp and a frequency token.
package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tick is one position on the time axis. Every tick carries its step index;
// ticks on a calendar axis additionally carry a timestamp.
type Tick struct {
	step     int
	ts       time.Time
	calendar bool
}

// StepTick returns a tick on an integer axis.
func StepTick(step int) Tick {
	return Tick{step: step}
}

// CalendarTick returns a tick on a calendar axis.
func CalendarTick(step int, ts time.Time) Tick {
	return Tick{step: step, ts: ts, calendar: true}
}

// Step returns the zero-based position of the tick on the axis.
func (t Tick) Step() int { return t.step }

// Time returns the tick's timestamp. The second return value is false on an
// integer axis, where no timestamp exists.
func (t Tick) Time() (time.Time, bool) {
	return t.ts, t.calendar
}

// Calendar reports whether the tick belongs to a calendar axis.
func (t Tick) Calendar() bool { return t.calendar }

// Layout is the format used when rendering calendar ticks as strings.
const Layout = "2006-01-02 15:04:05"

// String renders the tick as its step index, or as a formatted timestamp on a
// calendar axis.
func (t Tick) String() string {
	if t.calendar {
		return t.ts.Format(Layout)
	}
	return strconv.Itoa(t.step)
}

// Steps returns an integer axis of length n: 0, 1, ..., n-1.
func Steps(n int) []Tick {
	ticks := make([]Tick, n)
	for i := range ticks {
		ticks[i] = StepTick(i)
	}
	return ticks
}

// startLayouts are tried in order when no explicit layout is given.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseStart parses a start timestamp. When layout is non-empty it is used
// verbatim; otherwise a set of common layouts is tried. An explicit layout is
// the way to disambiguate strings like "01/03/2025".
func ParseStart(start, layout string) (time.Time, error) {
	if layout != "" {
		ts, err := time.Parse(layout, start)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse start time %q with layout %q: %w", start, layout, err)
		}
		return ts, nil
	}
	for _, l := range startLayouts {
		if ts, err := time.Parse(l, start); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot infer format of start time %q; pass an explicit layout", start)
}

// stepper advances a timestamp by one axis interval.
type stepper func(time.Time) time.Time

// parseFrequency maps a frequency token to its stepper. Both spelled-out
// tokens ("daily") and short aliases ("D") are accepted, case-insensitively.
// Note that "m" means monthly; minutes are "min", "t" or "minutely".
func parseFrequency(frequency string) (stepper, error) {
	switch strings.ToLower(strings.TrimSpace(frequency)) {
	case "s", "sec", "secondly":
		return func(t time.Time) time.Time { return t.Add(time.Second) }, nil
	case "min", "t", "minutely":
		return func(t time.Time) time.Time { return t.Add(time.Minute) }, nil
	case "h", "hourly":
		return func(t time.Time) time.Time { return t.Add(time.Hour) }, nil
	case "d", "daily":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }, nil
	case "w", "weekly":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }, nil
	case "m", "monthly":
		return func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }, nil
	case "y", "a", "yearly":
		return func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }, nil
	}
	return nil, fmt.Errorf("unknown frequency %q (use secondly, minutely, hourly, daily, weekly, monthly or yearly)", frequency)
}

// Calendar returns a calendar axis of length n starting at start and advancing
// by the given frequency. layout may be empty, in which case the start format
// is inferred.
func Calendar(n int, start, frequency, layout string) ([]Tick, error) {
	ts, err := ParseStart(start, layout)
	if err != nil {
		return nil, err
	}
	next, err := parseFrequency(frequency)
	if err != nil {
		return nil, err
	}

	ticks := make([]Tick, n)
	for i := 0; i < n; i++ {
		ticks[i] = CalendarTick(i, ts)
		ts = next(ts)
	}
	return ticks, nil
}
