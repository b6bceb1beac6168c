package duecheck

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"remindme/internal/reminder"
	"remindme/internal/store"
	"remindme/internal/storage"
)

type sent struct {
	text string
	due  time.Time
}

type recorder struct {
	sent []sent
	fail map[string]bool
}

func (r *recorder) Notify(text string, due time.Time) error {
	r.sent = append(r.sent, sent{text: text, due: due})
	if r.fail[text] {
		return errors.New("notifier unavailable")
	}
	return nil
}

type countingSaver struct {
	saves int
	last  []reminder.Reminder
	err   error
}

func (c *countingSaver) Save(rs []reminder.Reminder) error {
	c.saves++
	c.last = rs
	return c.err
}

func TestPayRentScenario(t *testing.T) {
	jan31 := time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC)
	s := store.New(store.WithClock(func() time.Time { return jan31 }))
	due, err := reminder.ResolveDue("09:00", "", jan31)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC); !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, due)
	}
	id, err := s.Add("Pay rent", due, reminder.Monthly)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	n := &recorder{}
	saver := &countingSaver{}
	eng := New(s, n, saver, Options{})
	rep, err := eng.Run(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(n.sent) != 1 || n.sent[0].text != "Pay rent" || !n.sent[0].due.Equal(due) {
		t.Fatalf("expected one notification with original due, got %+v", n.sent)
	}
	if rep.Rescheduled != 1 || saver.saves != 1 {
		t.Fatalf("unexpected report %+v saves=%d", rep, saver.saves)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC); !got.DueAt.Equal(want) {
		t.Fatalf("expected due %v, got %v", want, got.DueAt)
	}
	if got.Notified {
		t.Fatalf("expected notified reset after rollover")
	}
}

func TestOneShotRemovedAfterFiring(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := store.New()
	id, _ := s.Add("once", ref.Add(-time.Minute), reminder.None)
	future, _ := s.Add("later", ref.Add(time.Hour), reminder.None)

	n := &recorder{}
	rep, err := New(s, n, nil, Options{}).Run(ref)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Removed != 1 || len(n.sent) != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if _, err := s.Get(id); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected one-shot removed, got %v", err)
	}
	if _, err := s.Get(future); err != nil {
		t.Fatalf("future reminder touched: %v", err)
	}
}

func TestKeepExpiredMarksInert(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := store.New()
	id, _ := s.Add("once", ref.Add(-time.Minute), reminder.None)

	n := &recorder{}
	eng := New(s, n, nil, Options{KeepExpired: true})
	if _, err := eng.Run(ref); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("expected reminder kept: %v", err)
	}
	if !got.Notified {
		t.Fatalf("expected kept reminder to be marked notified")
	}
	if _, err := eng.Run(ref.Add(time.Hour)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected a single firing, got %d", len(n.sent))
	}
}

func TestRunTwiceFiresOnce(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := store.New()
	_, _ = s.Add("daily", ref.Add(-time.Hour), reminder.Daily)
	_, _ = s.Add("weekly", ref, reminder.Weekly)

	n := &recorder{}
	saver := &countingSaver{}
	eng := New(s, n, saver, Options{})
	if _, err := eng.Run(ref); err != nil {
		t.Fatalf("first run: %v", err)
	}
	rep, err := eng.Run(ref)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(n.sent) != 2 || len(rep.Fired) != 0 {
		t.Fatalf("expected 2 notifications total and none on second pass, got %d / %+v", len(n.sent), rep)
	}
	if saver.saves != 1 {
		t.Fatalf("expected no save for an empty pass, got %d saves", saver.saves)
	}
}

func TestMissedDailyFiresOnceAndLandsInFuture(t *testing.T) {
	ref := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	s := store.New()
	id, _ := s.Add("water", time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC), reminder.Daily)

	n := &recorder{}
	if _, err := New(s, n, nil, Options{}).Run(ref); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, _ := s.Get(id)
	if want := time.Date(2025, time.May, 11, 8, 0, 0, 0, time.UTC); !got.DueAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got.DueAt)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.sent))
	}
}

func TestNotifyFailureDoesNotAbortPass(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := store.New()
	bad, _ := s.Add("bad", ref.Add(-2*time.Hour), reminder.None)
	good, _ := s.Add("good", ref.Add(-time.Hour), reminder.Daily)

	n := &recorder{fail: map[string]bool{"bad": true}}
	saver := &countingSaver{}
	rep, err := New(s, n, saver, Options{}).Run(ref)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Failed != 1 || len(n.sent) != 2 {
		t.Fatalf("expected both attempted with one failure, got %+v", rep)
	}
	if _, err := s.Get(bad); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected failed one-shot still removed, got %v", err)
	}
	g, _ := s.Get(good)
	if !g.DueAt.After(ref) {
		t.Fatalf("expected good reminder rescheduled, got %v", g.DueAt)
	}
	if saver.saves != 1 || len(saver.last) != 1 {
		t.Fatalf("expected single batch save of 1 reminder, got %d saves / %d", saver.saves, len(saver.last))
	}
}

func TestSaveFailureSurfaces(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := store.New()
	_, _ = s.Add("x", ref, reminder.None)
	saver := &countingSaver{err: reminder.ErrPersistence}
	if _, err := New(s, &recorder{}, saver, Options{}).Run(ref); !errors.Is(err, reminder.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestCheckerLoadsRunsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	backend, err := storage.NewJSONFile(path)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.Local)
	seed := []reminder.Reminder{
		{ID: "aaaa0001", Text: "weekly", DueAt: ref.Add(-time.Hour), Recurrence: reminder.Weekly},
		{ID: "aaaa0002", Text: "once", DueAt: ref.Add(-time.Hour)},
		{ID: "aaaa0003", Text: "later", DueAt: ref.Add(time.Hour)},
	}
	if err := backend.Save(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n := &recorder{}
	c := &Checker{Backend: backend, Notifier: n}
	rep, err := c.Check(ref)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(rep.Fired) != 2 {
		t.Fatalf("expected 2 fired, got %d", len(rep.Fired))
	}

	after, err := backend.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 reminders persisted, got %d", len(after))
	}
	for _, r := range after {
		if r.ID == "aaaa0001" && !r.DueAt.Equal(ref.Add(-time.Hour).AddDate(0, 0, 7)) {
			t.Fatalf("weekly not advanced: %v", r.DueAt)
		}
	}
}
