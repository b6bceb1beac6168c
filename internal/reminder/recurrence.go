package reminder

import (
	"fmt"
	"time"
)

// NextOccurrence returns the occurrence following due. The result is always
// strictly later than due. None has no next occurrence.
func NextOccurrence(due time.Time, r Recurrence) (time.Time, error) {
	return step(due, r, 1)
}

// NextAfter returns the first occurrence strictly after ref, counting whole
// steps from due so month-end clamping does not accumulate while catching up.
func NextAfter(due time.Time, r Recurrence, ref time.Time) (time.Time, error) {
	for k := 1; ; k++ {
		next, err := step(due, r, k)
		if err != nil {
			return time.Time{}, err
		}
		if next.After(ref) {
			return next, nil
		}
	}
}

func step(due time.Time, r Recurrence, k int) (time.Time, error) {
	var next time.Time
	switch r {
	case Daily:
		next = due.AddDate(0, 0, k)
	case Weekly:
		next = due.AddDate(0, 0, 7*k)
	case Monthly:
		next = addMonthsClamped(due, k)
	case Yearly:
		next = addMonthsClamped(due, 12*k)
	case None:
		return time.Time{}, fmt.Errorf("%w: one-shot reminder has no next occurrence", ErrValidation)
	default:
		return time.Time{}, fmt.Errorf("%w: unknown recurrence %d", ErrValidation, int(r))
	}
	// A repeated wall-clock hour can normalize backwards.
	if !next.After(due) {
		next = due.Add(24 * time.Hour)
	}
	return next, nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
