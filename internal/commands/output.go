package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"remindme/internal/reminder"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	overdue = color.New(color.FgRed).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

type row struct {
	Number   int
	Reminder reminder.Reminder
}

func numbered(rs []reminder.Reminder) []row {
	rows := make([]row, 0, len(rs))
	for i, r := range rs {
		rows = append(rows, row{Number: i + 1, Reminder: r})
	}
	return rows
}

func printReminders(w io.Writer, rows []row, now time.Time) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("#"), bold("ID"), bold("DUE"), bold("REPEAT"), bold("TEXT"))
	for _, rw := range rows {
		r := rw.Reminder
		due := reminder.FormatDue(r.DueAt)
		switch {
		case r.Notified:
			due = faint(due + " (fired)")
		case !r.DueAt.After(now):
			due = overdue(due)
		}
		repeat := "-"
		if r.Recurring() {
			repeat = r.Recurrence.String()
		}
		tbl.AddRow(rw.Number, r.ID, due, repeat, r.Text)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
