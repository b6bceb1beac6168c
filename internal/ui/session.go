package ui

import (
	"errors"
	"fmt"
	"time"

	"remindme/internal/reminder"
	"remindme/internal/store"
	"remindme/internal/storage"
)

// Session is the state every view works on: the loaded store, the backend
// it is saved to and the selection cursor. Mutations are saved right away;
// a failed save leaves the session dirty until Flush succeeds.
type Session struct {
	store   *store.Store
	backend storage.Backend
	now     func() time.Time
	cursor  int
	dirty   bool
}

func NewSession(s *store.Store, backend storage.Backend, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{store: s, backend: backend, now: now}
}

// Reminders is the current listing; positions in it are cursor positions.
func (s *Session) Reminders() []reminder.Reminder {
	return s.store.List()
}

func (s *Session) Cursor() int {
	return s.cursor
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) Selected() (reminder.Reminder, bool) {
	list := s.store.List()
	if len(list) == 0 {
		return reminder.Reminder{}, false
	}
	return list[clampCursor(s.cursor, len(list))], true
}

func (s *Session) Move(delta int) {
	s.cursor = clampCursor(s.cursor+delta, s.store.Len())
}

func (s *Session) Add(text, clock, date, rec string) (string, error) {
	due, err := reminder.ResolveDue(clock, date, s.now())
	if err != nil {
		return "", err
	}
	r, err := reminder.ParseRecurrence(rec)
	if err != nil {
		return "", err
	}
	id, err := s.store.Add(text, due, r)
	if err != nil {
		return "", err
	}
	s.selectID(id)
	return id, s.persist()
}

func (s *Session) Edit(id string, ch store.Changes) error {
	if _, err := s.store.Edit(id, ch); err != nil {
		return err
	}
	s.selectID(id)
	return s.persist()
}

// DeleteSelected removes the reminder under the cursor.
func (s *Session) DeleteSelected() (reminder.Reminder, error) {
	r, ok := s.Selected()
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("%w: nothing selected", reminder.ErrNotFound)
	}
	if err := s.store.Delete(r.ID); err != nil {
		return reminder.Reminder{}, err
	}
	s.cursor = clampCursor(s.cursor, s.store.Len())
	return r, s.persist()
}

// Reload re-reads the backend unless unsaved changes would be lost.
func (s *Session) Reload() error {
	if s.dirty {
		return errors.New("unsaved changes")
	}
	rs, err := s.backend.Load()
	if err != nil {
		return err
	}
	selected, hadSelection := s.Selected()
	if err := s.store.Replace(rs); err != nil {
		return err
	}
	s.cursor = clampCursor(s.cursor, s.store.Len())
	if hadSelection {
		s.selectID(selected.ID)
	}
	return nil
}

func (s *Session) Flush() error {
	if !s.dirty {
		return nil
	}
	return s.persist()
}

func (s *Session) persist() error {
	s.dirty = true
	if err := s.backend.Save(s.store.List()); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *Session) selectID(id string) {
	for i, r := range s.store.List() {
		if r.ID == id {
			s.cursor = i
			return
		}
	}
	s.cursor = clampCursor(s.cursor, s.store.Len())
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
