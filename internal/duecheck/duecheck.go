// Package duecheck fires reminders whose time has come and rolls recurring
// ones forward. A pass is never interrupted once started.
package duecheck

import (
	"fmt"
	"io"
	"log"
	"time"

	"remindme/internal/notify"
	"remindme/internal/reminder"
	"remindme/internal/store"
	"remindme/internal/storage"
)

type Saver interface {
	Save([]reminder.Reminder) error
}

type Options struct {
	// KeepExpired keeps fired one-shot reminders, marked notified, instead
	// of deleting them.
	KeepExpired bool
	Logger      *log.Logger
}

type Report struct {
	Fired       []reminder.Reminder
	Failed      int
	Removed     int
	Rescheduled int
	Persisted   bool
}

type Engine struct {
	store    *store.Store
	notifier notify.Notifier
	saver    Saver
	opts     Options
	log      *log.Logger
}

func New(s *store.Store, n notify.Notifier, saver Saver, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{store: s, notifier: n, saver: saver, opts: opts, log: logger}
}

// Run notifies every reminder due at ref and saves the store once at the end.
// A failed notification is logged and counted; it never stops the pass.
func (e *Engine) Run(ref time.Time) (Report, error) {
	var rep Report
	due := e.store.DueNow(ref)
	if len(due) == 0 {
		return rep, nil
	}

	for _, r := range due {
		if err := e.notifier.Notify(r.Text, r.DueAt); err != nil {
			rep.Failed++
			e.log.Printf("[duecheck] notify %s failed: %v", r.ID, err)
		}
		rep.Fired = append(rep.Fired, r)

		if err := e.store.MarkNotified(r.ID); err != nil {
			e.log.Printf("[duecheck] mark %s: %v", r.ID, err)
			continue
		}
		if !r.Recurring() {
			if e.opts.KeepExpired {
				continue
			}
			if err := e.store.Delete(r.ID); err != nil {
				e.log.Printf("[duecheck] remove %s: %v", r.ID, err)
				continue
			}
			rep.Removed++
			continue
		}

		next, err := reminder.NextAfter(r.DueAt, r.Recurrence, ref)
		if err != nil {
			e.log.Printf("[duecheck] next occurrence of %s: %v", r.ID, err)
			continue
		}
		if err := e.store.Reschedule(r.ID, next); err != nil {
			e.log.Printf("[duecheck] reschedule %s: %v", r.ID, err)
			continue
		}
		rep.Rescheduled++
		e.log.Printf("[duecheck] %s next due %s", r.ID, reminder.FormatDue(next))
	}

	if e.saver != nil {
		if err := e.saver.Save(e.store.List()); err != nil {
			return rep, fmt.Errorf("save after due check: %w", err)
		}
		rep.Persisted = true
	}
	return rep, nil
}

// Checker runs one complete invocation against a backend: load, run, save.
type Checker struct {
	Backend  storage.Backend
	Notifier notify.Notifier
	Options  Options
}

func (c *Checker) Check(ref time.Time) (Report, error) {
	rs, err := c.Backend.Load()
	if err != nil {
		return Report{}, fmt.Errorf("load reminders: %w", err)
	}
	s, err := store.Load(rs)
	if err != nil {
		return Report{}, fmt.Errorf("load reminders: %w", err)
	}
	return New(s, c.Notifier, c.Backend, c.Options).Run(ref)
}
