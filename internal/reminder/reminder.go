package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrPersistence   = errors.New("persistence error")
	ErrNotification  = errors.New("notification error")
)

type Recurrence int

const (
	None Recurrence = iota
	Daily
	Weekly
	Monthly
	Yearly
)

var recurrenceTags = [...]string{
	None:    "none",
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
	Yearly:  "yearly",
}

// Recurrences lists every kind in display order.
func Recurrences() []Recurrence {
	return []Recurrence{None, Daily, Weekly, Monthly, Yearly}
}

func (r Recurrence) String() string {
	if r < None || r > Yearly {
		return fmt.Sprintf("recurrence(%d)", int(r))
	}
	return recurrenceTags[r]
}

// ParseRecurrence accepts the lowercase tags case-insensitively. An empty
// string means None.
func ParseRecurrence(s string) (Recurrence, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return None, nil
	}
	for _, r := range Recurrences() {
		if recurrenceTags[r] == v {
			return r, nil
		}
	}
	return None, fmt.Errorf("%w: unknown recurrence %q (valid: none, daily, weekly, monthly, yearly)", ErrValidation, s)
}

func (r Recurrence) MarshalText() ([]byte, error) {
	if r < None || r > Yearly {
		return nil, fmt.Errorf("%w: recurrence %d out of range", ErrValidation, int(r))
	}
	return []byte(recurrenceTags[r]), nil
}

func (r *Recurrence) UnmarshalText(b []byte) error {
	v, err := ParseRecurrence(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

type Reminder struct {
	ID         string
	Text       string
	DueAt      time.Time
	Recurrence Recurrence
	Notified   bool
}

func (r Reminder) Recurring() bool {
	return r.Recurrence != None
}

// ValidateText trims the text and rejects empty descriptions.
func ValidateText(text string) (string, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}
	return t, nil
}
