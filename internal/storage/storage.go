// Package storage persists the whole reminder collection. Backends always
// read and write every record; the last writer wins.
package storage

import (
	"fmt"
	"strings"
	"time"

	"remindme/internal/reminder"
)

const (
	KindJSON   = "json"
	KindSQLite = "sqlite"

	// dueLayout is local wall-clock time without a zone.
	dueLayout = "2006-01-02T15:04:05"
)

type Backend interface {
	Load() ([]reminder.Reminder, error)
	Save([]reminder.Reminder) error
	Close() error
	Path() string
}

// Open returns the backend named by kind, rooted at path.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindJSON:
		return NewJSONFile(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", reminder.ErrValidation, kind)
	}
}

type record struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	DueAt      string              `json:"due_at"`
	Recurrence reminder.Recurrence `json:"recurrence"`
	Notified   bool                `json:"notified"`
}

func toRecord(r reminder.Reminder) record {
	return record{
		ID:         r.ID,
		Text:       r.Text,
		DueAt:      formatDue(r.DueAt),
		Recurrence: r.Recurrence,
		Notified:   r.Notified,
	}
}

func (rec record) reminder() (reminder.Reminder, error) {
	due, err := parseDue(rec.DueAt)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("reminder %s: %w", rec.ID, err)
	}
	return reminder.Reminder{
		ID:         rec.ID,
		Text:       rec.Text,
		DueAt:      due,
		Recurrence: rec.Recurrence,
		Notified:   rec.Notified,
	}, nil
}

func formatDue(t time.Time) string {
	return t.In(time.Local).Format(dueLayout)
}

// parseDue also accepts RFC 3339 for files written by other tools.
func parseDue(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dueLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due_at %q", reminder.ErrInvalidFormat, s)
	}
	return t.In(time.Local), nil
}
