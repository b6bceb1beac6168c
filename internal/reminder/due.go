package reminder

import (
	"fmt"
	"strings"
	"time"
)

const (
	ClockLayout    = "15:04"
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrInvalidFormat, s)
	}
	return t.Hour(), t.Minute(), nil
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
	}
	return d, nil
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" as local wall-clock time in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD HH:MM", ErrInvalidFormat, s)
	}
	return t, nil
}

// ResolveDue turns a time of day and an optional date into a due timestamp.
// Without a date the reminder lands today, or tomorrow when that moment is
// not strictly after now.
func ResolveDue(timeStr, dateStr string, now time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	loc := now.Location()
	if strings.TrimSpace(dateStr) != "" {
		d, err := ParseDate(dateStr, loc)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
	}

	y, m, d := now.Date()
	due := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !due.After(now) {
		due = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return due, nil
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatDue(t time.Time) string {
	return t.Format(DateTimeLayout)
}
