package leaderboard

import (
	"fmt"
	"time"
)

type WindowKind int

const (
	AllTimeWindow WindowKind = iota
	WeeklyWindow
	MonthlyWindow
	CustomWindow
)

// Window bounds the set of problems in scope for one computation, by posting
// date. It does not change the per-problem cutoff rule. The calendar
// convention is canonical everywhere: weekly means the ISO week (Monday
// through Sunday) containing the reference time, monthly the calendar month.
type Window struct {
	Kind  WindowKind
	Start time.Time
	End   time.Time
}

func AllTime() Window {
	return Window{Kind: AllTimeWindow}
}

// WeeklyOf returns the ISO week containing now: Monday 00:00:00.000 through
// Sunday 23:59:59.999 in loc.
func WeeklyOf(now time.Time, loc *time.Location) Window {
	start, end := WeekBounds(now, loc)
	return Window{Kind: WeeklyWindow, Start: start, End: end}
}

// MonthlyOf returns the calendar month containing now in loc.
func MonthlyOf(now time.Time, loc *time.Location) Window {
	start, end := MonthBounds(now, loc)
	return Window{Kind: MonthlyWindow, Start: start, End: end}
}

func Between(start, end time.Time) Window {
	return Window{Kind: CustomWindow, Start: start, End: end}
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Kind == AllTimeWindow {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeekBounds computes the Monday 00:00:00.000 and Sunday 23:59:59.999 of the
// ISO week containing now, in loc.
func WeekBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	// time.Weekday counts Sunday as 0, ISO weeks start on Monday
	offset := int(now.Weekday())
	if offset == 0 {
		offset = 7
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(offset - 1))
	sundayEnd := monday.AddDate(0, 0, 7).Add(-time.Millisecond)
	return monday, sundayEnd
}

// MonthBounds computes the first and last instant of the calendar month
// containing now, in loc.
func MonthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, 0).Add(-time.Millisecond)
}

// ParseWindow maps the query-string forms to a Window. Empty defaults to
// all-time.
func ParseWindow(s string, now time.Time, loc *time.Location) (Window, error) {
	switch s {
	case "", "all", "all-time":
		return AllTime(), nil
	case "weekly":
		return WeeklyOf(now, loc), nil
	case "monthly":
		return MonthlyOf(now, loc), nil
	}
	return Window{}, fmt.Errorf("unknown window %q", s)
}
