package evaluator

import (
	"errors"
	"fmt"
	"time"

	"github.com/nvandessel/dbnsim/internal/models"
	"github.com/nvandessel/dbnsim/internal/timeline"
)

// ErrCalendarRequired is returned when a calendar-derived feature (day of
// week, day of month, month of year) is evaluated against an integer time
// axis, which carries no calendar information.
var ErrCalendarRequired = errors.New("feature requires a calendar time axis")

// calendarTime extracts the timestamp from a tick or fails for integer axes.
func calendarTime(name string, tick timeline.Tick) (time.Time, error) {
	ts, ok := tick.Time()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s at step %d", ErrCalendarRequired, name, tick.Step())
	}
	return ts, nil
}

// DayOfWeek yields the ISO weekday: Monday=1 through Sunday=7.
type DayOfWeek struct{}

func (DayOfWeek) Evaluate(tick timeline.Tick) (float64, error) {
	ts, err := calendarTime("day-of-week", tick)
	if err != nil {
		return 0, err
	}
	wd := int(ts.Weekday())
	if wd == 0 { // time.Sunday
		wd = 7
	}
	return float64(wd), nil
}

// DayOfMonth yields the calendar day of the month, 1..31, leap-year correct.
type DayOfMonth struct{}

func (DayOfMonth) Evaluate(tick timeline.Tick) (float64, error) {
	ts, err := calendarTime("day-of-month", tick)
	if err != nil {
		return 0, err
	}
	return float64(ts.Day()), nil
}

// MonthOfYear yields the calendar month, 1 (January) through 12 (December).
type MonthOfYear struct{}

func (MonthOfYear) Evaluate(tick timeline.Tick) (float64, error) {
	ts, err := calendarTime("month-of-year", tick)
	if err != nil {
		return 0, err
	}
	return float64(ts.Month()), nil
}

// PointOfPeriodicCycle yields the 1-based position of the step within a
// repeating cycle: (step mod length) + 1. It needs no calendar semantics and
// works on both axis modes, since every tick carries a step index.
type PointOfPeriodicCycle struct {
	length int
}

// NewPointOfPeriodicCycle builds a periodic-cycle feature of the given length.
func NewPointOfPeriodicCycle(length int) (PointOfPeriodicCycle, error) {
	if length < 1 {
		return PointOfPeriodicCycle{}, fmt.Errorf("%w: cycle length must be positive, got %d", models.ErrInvalidNode, length)
	}
	return PointOfPeriodicCycle{length: length}, nil
}

func (p PointOfPeriodicCycle) Evaluate(tick timeline.Tick) (float64, error) {
	return float64(tick.Step()%p.length + 1), nil
}
