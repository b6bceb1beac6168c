package notify

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gen2brain/beeep"

	"remindme/internal/reminder"
)

type Notifier interface {
	Notify(text string, due time.Time) error
}

// Terminal prints reminders to w.
type Terminal struct {
	w     io.Writer
	label *color.Color
	due   *color.Color
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:     w,
		label: color.New(color.Bold, color.FgHiYellow),
		due:   color.New(color.Faint),
	}
}

func (t *Terminal) Notify(text string, due time.Time) error {
	if _, err := t.label.Fprint(t.w, "REMINDER: "); err != nil {
		return fmt.Errorf("%w: %w", reminder.ErrNotification, err)
	}
	if _, err := fmt.Fprint(t.w, text); err != nil {
		return fmt.Errorf("%w: %w", reminder.ErrNotification, err)
	}
	if _, err := t.due.Fprintf(t.w, " (due %s)\n", reminder.FormatDue(due)); err != nil {
		return fmt.Errorf("%w: %w", reminder.ErrNotification, err)
	}
	return nil
}

// Sender delivers one desktop notification. Tests replace it.
type Sender func(title, message string) error

func beeepSender(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Desktop raises a desktop notification through the platform's notification
// service.
type Desktop struct {
	AppName string
	Timeout time.Duration
	Send    Sender
}

func NewDesktop(appName string, timeout time.Duration) *Desktop {
	return &Desktop{
		AppName: appName,
		Timeout: timeout,
		Send:    beeepSender,
	}
}

// Notify gives up after Timeout when the notification service hangs.
func (d *Desktop) Notify(text string, due time.Time) error {
	title := "Reminder"
	if d.AppName != "" {
		title = d.AppName + ": reminder"
	}
	body := fmt.Sprintf("%s\nDue %s", text, reminder.FormatDue(due))

	done := make(chan error, 1)
	go func() { done <- d.Send(title, body) }()

	var err error
	if d.Timeout > 0 {
		select {
		case err = <-done:
		case <-time.After(d.Timeout):
			err = fmt.Errorf("no response after %s", d.Timeout)
		}
	} else {
		err = <-done
	}
	if err != nil {
		return fmt.Errorf("%w: desktop: %w", reminder.ErrNotification, err)
	}
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(text string, due time.Time) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(text, due); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
