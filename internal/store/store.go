// Package store holds the in-memory reminder collection a process works on.
// Positions handed out by List are view positions only; every index-based
// call resolves against a fresh listing.
package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"remindme/internal/reminder"
)

const idLength = 8

type entry struct {
	r   reminder.Reminder
	seq uint64
}

type Store struct {
	items map[string]*entry
	used  map[string]struct{}
	next  uint64
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock sets the clock used when an edit re-resolves a due date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource replaces the random id generator.
func WithIDSource(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(opts ...Option) *Store {
	s := &Store{
		items: map[string]*entry{},
		used:  map[string]struct{}{},
		now:   time.Now,
		newID: randomID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load builds a store from a persisted collection, keeping its order for ties.
func Load(rs []reminder.Reminder, opts ...Option) (*Store, error) {
	s := New(opts...)
	if err := s.Replace(rs); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the whole collection, e.g. after another process rewrote
// the store file. Ids seen before stay reserved.
func (s *Store) Replace(rs []reminder.Reminder) error {
	items := make(map[string]*entry, len(rs))
	var seq uint64
	for _, r := range rs {
		if r.ID == "" {
			return fmt.Errorf("%w: reminder %q has no id", reminder.ErrValidation, r.Text)
		}
		if _, dup := items[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", reminder.ErrValidation, r.ID)
		}
		text, err := reminder.ValidateText(r.Text)
		if err != nil {
			return fmt.Errorf("reminder %s: %w", r.ID, err)
		}
		r.Text = text
		items[r.ID] = &entry{r: r, seq: seq}
		seq++
	}
	s.items = items
	s.next = seq
	for id := range items {
		s.used[id] = struct{}{}
	}
	return nil
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Add(text string, due time.Time, rec reminder.Recurrence) (string, error) {
	t, err := reminder.ValidateText(text)
	if err != nil {
		return "", err
	}
	if _, err := rec.MarshalText(); err != nil {
		return "", err
	}
	id := s.freshID()
	s.items[id] = &entry{
		r:   reminder.Reminder{ID: id, Text: t, DueAt: due, Recurrence: rec},
		seq: s.next,
	}
	s.next++
	return id, nil
}

// List returns copies in ascending due order, insertion order breaking ties.
func (s *Store) List() []reminder.Reminder {
	entries := make([]*entry, 0, len(s.items))
	for _, e := range s.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.r.DueAt.Equal(b.r.DueAt) {
			return a.r.DueAt.Before(b.r.DueAt)
		}
		if a.seq != b.seq {
			return a.seq < b.seq
		}
		return a.r.ID < b.r.ID
	})
	out := make([]reminder.Reminder, len(entries))
	for i, e := range entries {
		out[i] = e.r
	}
	return out
}

func (s *Store) Get(id string) (reminder.Reminder, error) {
	e, ok := s.items[id]
	if !ok {
		return reminder.Reminder{}, notFound(id)
	}
	return e.r, nil
}

// ResolveIndex maps a 0-based position in the current listing to an id.
func (s *Store) ResolveIndex(pos int) (string, error) {
	list := s.List()
	if pos < 0 || pos >= len(list) {
		return "", fmt.Errorf("%w: index %d out of range (%d reminders)", reminder.ErrNotFound, pos, len(list))
	}
	return list[pos].ID, nil
}

// Changes carries the optional fields of an edit. A non-nil empty Date
// clears the date so the default rule picks today or tomorrow.
type Changes struct {
	Text       *string
	Time       *string
	Date       *string
	Recurrence *reminder.Recurrence
}

func (s *Store) Edit(id string, ch Changes) (reminder.Reminder, error) {
	e, ok := s.items[id]
	if !ok {
		return reminder.Reminder{}, notFound(id)
	}
	updated := e.r

	if ch.Text != nil {
		t, err := reminder.ValidateText(*ch.Text)
		if err != nil {
			return reminder.Reminder{}, err
		}
		updated.Text = t
	}
	if ch.Recurrence != nil {
		if _, err := ch.Recurrence.MarshalText(); err != nil {
			return reminder.Reminder{}, err
		}
		updated.Recurrence = *ch.Recurrence
	}
	if ch.Time != nil || ch.Date != nil {
		clock := reminder.FormatClock(e.r.DueAt)
		if ch.Time != nil {
			clock = *ch.Time
		}
		// A time-only edit leaves the date to the default rule.
		date := ""
		switch {
		case ch.Date != nil:
			date = *ch.Date
		case ch.Time == nil:
			date = reminder.FormatDate(e.r.DueAt)
		}
		due, err := reminder.ResolveDue(clock, date, s.now())
		if err != nil {
			return reminder.Reminder{}, err
		}
		updated.DueAt = due
		updated.Notified = false
	}

	e.r = updated
	return updated, nil
}

// SetDue moves a reminder to an exact timestamp.
func (s *Store) SetDue(id string, due time.Time) (reminder.Reminder, error) {
	e, ok := s.items[id]
	if !ok {
		return reminder.Reminder{}, notFound(id)
	}
	e.r.DueAt = due
	e.r.Notified = false
	return e.r, nil
}

func (s *Store) Delete(id string) error {
	if _, ok := s.items[id]; !ok {
		return notFound(id)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) DeleteAt(pos int) (string, error) {
	id, err := s.ResolveIndex(pos)
	if err != nil {
		return "", err
	}
	return id, s.Delete(id)
}

// DueNow returns unnotified reminders due at or before ref, in listing order.
func (s *Store) DueNow(ref time.Time) []reminder.Reminder {
	var due []reminder.Reminder
	for _, r := range s.List() {
		if !r.Notified && !r.DueAt.After(ref) {
			due = append(due, r)
		}
	}
	return due
}

func (s *Store) MarkNotified(id string) error {
	e, ok := s.items[id]
	if !ok {
		return notFound(id)
	}
	e.r.Notified = true
	return nil
}

// Reschedule moves a reminder to its next occurrence and re-arms it.
func (s *Store) Reschedule(id string, due time.Time) error {
	_, err := s.SetDue(id, due)
	return err
}

func (s *Store) ResetNotified(id string) error {
	e, ok := s.items[id]
	if !ok {
		return notFound(id)
	}
	e.r.Notified = false
	return nil
}

// Search matches text case-insensitively, in listing order.
func (s *Store) Search(query string) []reminder.Reminder {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []reminder.Reminder
	for _, r := range s.List() {
		if strings.Contains(strings.ToLower(r.Text), q) {
			out = append(out, r)
		}
	}
	return out
}

type Stats struct {
	Total     int
	Recurring int
	Fired     int
	Active    int
	DueToday  int
	Overdue   int
}

func (s *Store) Stats(now time.Time) Stats {
	var st Stats
	y, m, d := now.Date()
	for _, e := range s.items {
		r := e.r
		st.Total++
		if r.Recurring() {
			st.Recurring++
		}
		if r.Notified {
			st.Fired++
			continue
		}
		st.Active++
		ry, rm, rd := r.DueAt.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			st.DueToday++
		}
		if !r.DueAt.After(now) {
			st.Overdue++
		}
	}
	return st
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if _, taken := s.used[id]; taken {
			continue
		}
		s.used[id] = struct{}{}
		return id
	}
}

func randomID() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:idLength]
}

func notFound(id string) error {
	return fmt.Errorf("%w: no reminder with id %s", reminder.ErrNotFound, id)
}
