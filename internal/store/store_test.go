package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"remindme/internal/reminder"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%08x", n)
	}
}

func strPtr(s string) *string { return &s }

func newTestStore(now time.Time) *Store {
	return New(WithClock(fixedClock(now)), WithIDSource(sequentialIDs()))
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s := New()
	due := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := s.Add(fmt.Sprintf("r%d", i), due, reminder.None)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if len(id) != idLength {
			t.Fatalf("expected %d char id, got %q", idLength, id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	s := New()
	if _, err := s.Add("  ", time.Now(), reminder.None); !errors.Is(err, reminder.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestIDsNeverReused(t *testing.T) {
	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	i := 0
	s := New(WithIDSource(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}))
	first, _ := s.Add("one", time.Now(), reminder.None)
	if err := s.Delete(first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, _ := s.Add("two", time.Now(), reminder.None)
	if second == first {
		t.Fatalf("id %s reused after delete", first)
	}
}

func TestListOrdersByDueThenInsertion(t *testing.T) {
	s := newTestStore(time.Now())
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	late, _ := s.Add("late", base.Add(2*time.Hour), reminder.None)
	tieA, _ := s.Add("tie a", base, reminder.None)
	tieB, _ := s.Add("tie b", base, reminder.Daily)

	got := s.List()
	want := []string{tieA, tieB, late}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestResolveIndexFollowsCurrentListing(t *testing.T) {
	s := newTestStore(time.Now())
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.Add(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Hour), reminder.None); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	list := s.List()
	for i := range list {
		id, err := s.ResolveIndex(i)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if id != list[i].ID {
			t.Fatalf("index %d: expected %s, got %s", i, list[i].ID, id)
		}
	}

	// An earlier reminder shifts every position.
	early, _ := s.Add("early", base.Add(-time.Hour), reminder.None)
	id, err := s.ResolveIndex(0)
	if err != nil || id != early {
		t.Fatalf("expected index 0 to be %s after add, got %s (%v)", early, id, err)
	}

	if _, err := s.ResolveIndex(4); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.ResolveIndex(-1); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteAtRemovesExactlyThatReminder(t *testing.T) {
	now := time.Date(2025, time.May, 1, 17, 0, 0, 0, time.UTC)
	s := newTestStore(now)
	due, err := reminder.ResolveDue("18:00", "", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !due.Equal(time.Date(2025, time.May, 1, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected due today 18:00, got %v", due)
	}
	x, _ := s.Add("X", due, reminder.None)
	_, _ = s.Add("Y", due.Add(time.Hour), reminder.None)

	before := len(s.List())
	id, err := s.DeleteAt(0)
	if err != nil {
		t.Fatalf("delete at: %v", err)
	}
	if id != x {
		t.Fatalf("expected %s deleted, got %s", x, id)
	}
	after := s.List()
	if len(after) != before-1 {
		t.Fatalf("expected %d reminders, got %d", before-1, len(after))
	}
	for _, r := range after {
		if r.ID == x {
			t.Fatalf("reminder %s still listed", x)
		}
	}
}

func TestDeleteUnknown(t *testing.T) {
	s := New()
	if err := s.Delete("deadbeef"); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.DeleteAt(0); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEdit(t *testing.T) {
	now := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	orig := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ch      Changes
		wantDue time.Time
		want    string
		wantErr error
	}{
		{
			name:    "text only keeps due",
			ch:      Changes{Text: strPtr("renamed")},
			wantDue: orig,
			want:    "renamed",
		},
		{
			name:    "date only keeps time of day",
			ch:      Changes{Date: strPtr("2025-07-04")},
			wantDue: time.Date(2025, time.July, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "time only re-runs default rule",
			ch:      Changes{Time: strPtr("08:00")},
			wantDue: time.Date(2025, time.May, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "time and date",
			ch:      Changes{Time: strPtr("14:15"), Date: strPtr("2025-08-01")},
			wantDue: time.Date(2025, time.August, 1, 14, 15, 0, 0, time.UTC),
		},
		{
			name:    "cleared date uses default rule",
			ch:      Changes{Date: strPtr("")},
			wantDue: time.Date(2025, time.May, 11, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty text",
			ch:      Changes{Text: strPtr("")},
			wantErr: reminder.ErrValidation,
		},
		{
			name:    "bad time",
			ch:      Changes{Time: strPtr("9am")},
			wantErr: reminder.ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(now)
			id, err := s.Add("original", orig, reminder.Weekly)
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			got, err := s.Edit(id, tt.ch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				kept, _ := s.Get(id)
				if kept.Text != "original" || !kept.DueAt.Equal(orig) {
					t.Fatalf("failed edit mutated reminder: %+v", kept)
				}
				return
			}
			if err != nil {
				t.Fatalf("edit: %v", err)
			}
			if !got.DueAt.Equal(tt.wantDue) {
				t.Fatalf("expected due %v, got %v", tt.wantDue, got.DueAt)
			}
			if tt.want != "" && got.Text != tt.want {
				t.Fatalf("expected text %q, got %q", tt.want, got.Text)
			}
			if got.Recurrence != reminder.Weekly {
				t.Fatalf("recurrence changed to %s", got.Recurrence)
			}
		})
	}
}

func TestEditRecurrenceAndUnknownID(t *testing.T) {
	s := newTestStore(time.Now())
	id, _ := s.Add("x", time.Now(), reminder.None)
	monthly := reminder.Monthly
	got, err := s.Edit(id, Changes{Recurrence: &monthly})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Recurrence != reminder.Monthly {
		t.Fatalf("expected monthly, got %s", got.Recurrence)
	}
	if _, err := s.Edit("nope", Changes{Text: strPtr("y")}); !errors.Is(err, reminder.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDueNow(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(ref)
	past, _ := s.Add("past", ref.Add(-time.Hour), reminder.None)
	exact, _ := s.Add("exact", ref, reminder.Daily)
	fired, _ := s.Add("fired", ref.Add(-2*time.Hour), reminder.None)
	_, _ = s.Add("future", ref.Add(time.Minute), reminder.None)
	if err := s.MarkNotified(fired); err != nil {
		t.Fatalf("mark: %v", err)
	}

	due := s.DueNow(ref)
	if len(due) != 2 {
		t.Fatalf("expected 2 due, got %d", len(due))
	}
	if due[0].ID != past || due[1].ID != exact {
		t.Fatalf("unexpected due set: %+v", due)
	}

	if err := s.ResetNotified(fired); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(s.DueNow(ref)) != 3 {
		t.Fatalf("expected reset reminder to be due again")
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	rs := []reminder.Reminder{{ID: "a", Text: "x"}, {ID: "a", Text: "y"}}
	if _, err := Load(rs); !errors.Is(err, reminder.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   "} {
		rs := []reminder.Reminder{{ID: "a", Text: "ok"}, {ID: "b", Text: text}}
		if _, err := Load(rs); !errors.Is(err, reminder.ErrValidation) {
			t.Fatalf("text %q: expected validation error, got %v", text, err)
		}
	}

	s, err := Load([]reminder.Reminder{{ID: "a", Text: "  Pay rent "}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r, _ := s.Get("a"); r.Text != "Pay rent" {
		t.Fatalf("expected trimmed text, got %q", r.Text)
	}
}

func TestSearchAndStats(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(now)
	_, _ = s.Add("Pay rent", now.Add(-time.Hour), reminder.Monthly)
	_, _ = s.Add("Call mom", now.Add(time.Hour), reminder.None)
	old, _ := s.Add("rent receipt", now.Add(-48*time.Hour), reminder.None)
	_ = s.MarkNotified(old)

	if got := s.Search("RENT"); len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	st := s.Stats(now)
	want := Stats{Total: 3, Recurring: 1, Fired: 1, Active: 2, DueToday: 2, Overdue: 1}
	if st != want {
		t.Fatalf("expected %+v, got %+v", want, st)
	}
}
